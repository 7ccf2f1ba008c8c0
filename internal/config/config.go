// Package config provides configuration for the application
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	Database       DatabaseConfig `envconfig:"DB"`
	Server         ServerConfig   `envconfig:"SERVER"`
	Logging        LoggingConfig  `envconfig:"LOG"`
	CORS           CORSConfig     `envconfig:"CORS"`
	JWT            JWTConfig      `envconfig:"JWT"`
	S3             S3Config       `envconfig:"S3"`
	Env            string         `envconfig:"ENV" default:"production"`
	RateLimit      int            `envconfig:"RATE_LIMIT_PER_MINUTE" default:"100"`
	MigrationsPath string         `envconfig:"MIGRATIONS_PATH" default:"file://migrations"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"HOST" required:"true"`
	Port     int    `envconfig:"PORT" required:"true"`
	User     string `envconfig:"USER" required:"true"`
	Password string `envconfig:"PASSWORD" required:"true"`
	DBName   string `envconfig:"NAME" required:"true"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int `envconfig:"PORT" default:"8080"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// JWTConfig holds access token validation settings
type JWTConfig struct {
	Secret string `envconfig:"SECRET" required:"true"`
}

// S3Config holds the file storage settings.
// When Bucket is empty uploaded files are never deleted.
type S3Config struct {
	Endpoint      string `envconfig:"ENDPOINT"`
	Region        string `envconfig:"REGION" default:"us-east-1"`
	Bucket        string `envconfig:"BUCKET"`
	AccessKey     string `envconfig:"ACCESS_KEY"`
	SecretKey     string `envconfig:"SECRET_KEY"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.CORS.AllowedOrigins = cleanOrigins(cfg.CORS.AllowedOrigins)
	if cfg.RateLimit < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %d", cfg.RateLimit)
	}

	return cfg, nil
}

// IsDevelopment reports whether the application runs in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return c.Database.DSN()
}

// DSN returns the database connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}

// cleanOrigins trims origins and drops empty ones, defaulting to allow all
func cleanOrigins(origins []string) []string {
	cleaned := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cleaned = append(cleaned, origin)
		}
	}
	if len(cleaned) == 0 {
		return []string{"*"}
	}
	return cleaned
}
