package main

import (
	"fmt"
	"log"

	"heliogen/internal/config"
	"heliogen/internal/handler"
	"heliogen/internal/registry/operator"
	"heliogen/internal/registry/siesa"
	"heliogen/internal/registry/specialbilling"
	"heliogen/internal/repository/postgres"
	"heliogen/internal/router"
	"heliogen/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	generationRepo := postgres.NewGenerationRepo(db)

	// Initialize registry clients
	plantRegistry := siesa.NewClient(&cfg.Registry)
	operatorRegistry := operator.NewClient(&cfg.Registry)
	exportRegistry := specialbilling.NewClient(&cfg.Registry)

	// Initialize services
	generationSvc := service.NewGenerationService(
		generationRepo, plantRegistry, operatorRegistry, exportRegistry, cfg.Aggregation)
	reportSvc := service.NewReportService(generationRepo, plantRegistry)

	// Initialize handlers
	generationH := handler.NewGenerationHandler(generationSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(generationH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
