// Command migrate manages the generation-ledger schema. The ledger carries
// one immutable row per plant and billing period, so schema changes go
// through versioned migrations rather than ad-hoc DDL.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"heliogen/internal/config"
)

func main() {
	path := flag.String("path", "db/migrations", "directory holding the ledger migrations")
	flag.Usage = usage
	flag.Parse()

	if err := run(*path, flag.Args()); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-path dir] <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up         apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down       revert all migrations")
	fmt.Fprintln(os.Stderr, "  steps N    apply N migrations (negative to revert)")
	fmt.Fprintln(os.Stderr, "  force V    mark version V as applied after a manual repair")
	fmt.Fprintln(os.Stderr, "  version    print the current schema version")
}

func run(path string, args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	m, err := migrate.New("file://"+path, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("opening migration source: %w", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("applying migrations: %w", err)
		}
		log.Println("ledger schema is up to date")

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("reverting migrations: %w", err)
		}
		log.Println("ledger schema reverted")

	case "steps":
		if len(args) < 2 {
			return fmt.Errorf("steps requires a number argument")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid steps argument %q: %w", args[1], err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("applying %d steps: %w", n, err)
		}
		log.Printf("applied %d migration steps", n)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version argument %q: %w", args[1], err)
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("forcing version %d: %w", v, err)
		}
		log.Printf("schema version forced to %d", v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
