package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "courses")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "coursehub")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "coursehub", cfg.Database.DBName)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "jwt-secret", cfg.JWT.Secret)
		assert.Equal(t, 100, cfg.RateLimit)
		assert.Equal(t, "file://migrations", cfg.MigrationsPath)
		assert.Empty(t, cfg.S3.Bucket)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("ENV", "development")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com,")
		t.Setenv("S3_BUCKET", "course-files")
		t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example.com")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "20")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.IsDevelopment())
		assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "course-files", cfg.S3.Bucket)
		assert.Equal(t, "https://cdn.example.com", cfg.S3.PublicBaseURL)
		assert.Equal(t, 20, cfg.RateLimit)
	})

	t.Run("missing required variable", func(t *testing.T) {
		setRequiredEnv(t)
		require.NoError(t, os.Unsetenv("JWT_SECRET"))

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_PORT", "abc")

		_, err := Load()

		assert.Error(t, err)
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: 3306, User: "u", Password: "p", DBName: "courses"}}

	assert.Equal(t, "u:p@tcp(db:3306)/courses?parseTime=true&charset=utf8mb4", cfg.DSN())
}

func TestLoadTestConfig(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "")

		cfg, err := LoadTestConfig()

		require.NoError(t, err)
		assert.Empty(t, cfg.Database.Host)
	})

	t.Run("configured", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "127.0.0.1")
		t.Setenv("TEST_DB_PORT", "3307")
		t.Setenv("TEST_DB_USER", "test")
		t.Setenv("TEST_DB_PASSWORD", "test")
		t.Setenv("TEST_DB_NAME", "coursehub_test")

		cfg, err := LoadTestConfig()

		require.NoError(t, err)
		assert.Equal(t, "test:test@tcp(127.0.0.1:3307)/coursehub_test?parseTime=true&charset=utf8mb4", cfg.DSN())
	})
}
