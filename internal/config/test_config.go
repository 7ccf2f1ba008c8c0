package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// LoadTestConfig loads the database configuration for integration tests from TEST_DB_* variables.
// If TEST_DB_HOST is not set, returns a Config with empty values so the caller can skip.
func LoadTestConfig() (*Config, error) {
	// .env is optional, try both possible paths
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{MigrationsPath: "file://../../migrations"}
	if os.Getenv("TEST_DB_HOST") == "" {
		return cfg, nil
	}

	if err := envconfig.Process("TEST_DB", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to process test database environment: %w", err)
	}

	return cfg, nil
}
