package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Log         LogConfig
	Registry    RegistryConfig
	Aggregation AggregationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RegistryConfig holds endpoints and timeout for the collaborator registries.
type RegistryConfig struct {
	PlantBaseURL          string        `mapstructure:"plant_base_url"`
	OperatorBaseURL       string        `mapstructure:"operator_base_url"`
	SpecialBillingBaseURL string        `mapstructure:"special_billing_base_url"`
	Timeout               time.Duration `mapstructure:"timeout"`
}

// AggregationConfig holds aggregation engine settings.
type AggregationConfig struct {
	// Concurrency bounds how many plants are aggregated in parallel.
	// Items for the same plant always run sequentially, in input order.
	Concurrency int `mapstructure:"concurrency"`
	// SentinelPlantName is the internal non-billable site; readings for it
	// are skipped without error.
	SentinelPlantName string `mapstructure:"sentinel_plant_name"`
}

// Load reads configuration from environment variables with the HELIOGEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HELIOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "heliogen")
	v.SetDefault("db.password", "heliogen_secret")
	v.SetDefault("db.name", "heliogen_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Registry defaults
	v.SetDefault("registry.plant_base_url", "http://localhost:8081")
	v.SetDefault("registry.operator_base_url", "http://localhost:8082")
	v.SetDefault("registry.special_billing_base_url", "http://localhost:8083")
	v.SetDefault("registry.timeout", "10s")

	// Aggregation defaults
	v.SetDefault("aggregation.concurrency", 4)
	v.SetDefault("aggregation.sentinel_plant_name", "Sede Edemco")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "HELIOGEN_SERVER_PORT",
		"server.read_timeout":               "HELIOGEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "HELIOGEN_SERVER_WRITE_TIMEOUT",
		"server.environment":                "HELIOGEN_SERVER_ENVIRONMENT",
		"db.host":                           "HELIOGEN_DB_HOST",
		"db.port":                           "HELIOGEN_DB_PORT",
		"db.user":                           "HELIOGEN_DB_USER",
		"db.password":                       "HELIOGEN_DB_PASSWORD",
		"db.name":                           "HELIOGEN_DB_NAME",
		"db.sslmode":                        "HELIOGEN_DB_SSLMODE",
		"db.max_open":                       "HELIOGEN_DB_MAX_OPEN",
		"db.max_idle":                       "HELIOGEN_DB_MAX_IDLE",
		"log.level":                         "HELIOGEN_LOG_LEVEL",
		"log.format":                        "HELIOGEN_LOG_FORMAT",
		"registry.plant_base_url":           "HELIOGEN_REGISTRY_PLANT_BASE_URL",
		"registry.operator_base_url":        "HELIOGEN_REGISTRY_OPERATOR_BASE_URL",
		"registry.special_billing_base_url": "HELIOGEN_REGISTRY_SPECIAL_BILLING_BASE_URL",
		"registry.timeout":                  "HELIOGEN_REGISTRY_TIMEOUT",
		"aggregation.concurrency":           "HELIOGEN_AGGREGATION_CONCURRENCY",
		"aggregation.sentinel_plant_name":   "HELIOGEN_AGGREGATION_SENTINEL_PLANT_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if HELIOGEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HELIOGEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Registry = RegistryConfig{
		PlantBaseURL:          v.GetString("registry.plant_base_url"),
		OperatorBaseURL:       v.GetString("registry.operator_base_url"),
		SpecialBillingBaseURL: v.GetString("registry.special_billing_base_url"),
		Timeout:               v.GetDuration("registry.timeout"),
	}
	cfg.Aggregation = AggregationConfig{
		Concurrency:       v.GetInt("aggregation.concurrency"),
		SentinelPlantName: v.GetString("aggregation.sentinel_plant_name"),
	}

	if cfg.Aggregation.Concurrency < 1 {
		return nil, fmt.Errorf("aggregation.concurrency must be at least 1, got %d", cfg.Aggregation.Concurrency)
	}

	return cfg, nil
}
