package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursehub/backend/docs"
	"github.com/coursehub/backend/internal/auth"
	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/handlers"
	"github.com/coursehub/backend/internal/logger"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/repositories"
	"github.com/coursehub/backend/internal/services"
	"github.com/coursehub/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title CourseHub API
// @version 1.0
// @description API for courses, lectures, quizzes and student progress

// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token in the form "Bearer <token>"
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logging.Level, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting CourseHub service")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(cfg.DSN(), cfg.MigrationsPath); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize file storage
	fileStore, err := newFileStore(context.Background(), cfg.S3)
	if err != nil {
		appLogger.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	if cfg.S3.Bucket == "" {
		appLogger.Warn("S3_BUCKET is not set, attached files will not be deleted")
	}

	// Initialize repositories
	txManager := repositories.NewTxManager(db)
	courseRepo := repositories.NewCourseRepository(db)
	lectureRepo := repositories.NewLectureRepository(db)
	progressRepo := repositories.NewProgressRepository(db)

	// Initialize services
	courseService := services.NewCourseService(txManager, courseRepo, lectureRepo, progressRepo, fileStore, appLogger)
	lectureService := services.NewLectureService(txManager, courseRepo, lectureRepo, progressRepo, fileStore, appLogger)
	enrollmentService := services.NewEnrollmentService(txManager, courseRepo, lectureRepo, progressRepo, appLogger)
	progressService := services.NewProgressService(txManager, courseRepo, lectureRepo, progressRepo)
	quizService := services.NewQuizService(txManager, lectureRepo, progressRepo)

	// Initialize handlers
	base := handlers.NewBaseHandler(appLogger, validator.New(validator.WithRequiredStructEnabled()))
	courseHandler := handlers.NewCourseHandler(base, courseService, enrollmentService)
	lectureHandler := handlers.NewLectureHandler(base, lectureService, progressService)
	progressHandler := handlers.NewProgressHandler(base, progressService, quizService)

	authMw := middleware.AuthMiddleware(auth.NewTokenValidator(cfg.JWT.Secret))

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(appLogger))
	r.Use(middleware.RecoveryMiddleware(appLogger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.MaxRequestSize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger documentation
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		courseHandler.RegisterRoutes(r, authMw)
		lectureHandler.RegisterRoutes(r, authMw)
		progressHandler.RegisterRoutes(r, authMw)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations on a dedicated connection.
// Migration files hold several statements each, so the connection enables multiStatements.
func runMigrations(dsn, migrationPath string) error {
	db, err := sql.Open("mysql", dsn+"&multiStatements=true")
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Try parent directory if running from cmd
	if migrationPath == "file://migrations" {
		if _, err := os.Stat("migrations"); os.IsNotExist(err) {
			if _, err := os.Stat("../migrations"); err == nil {
				migrationPath = "file://../migrations"
			}
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// newFileStore creates the S3 file store, or a no-op store when no bucket is configured
func newFileStore(ctx context.Context, cfg config.S3Config) (services.FileStore, error) {
	if cfg.Bucket == "" {
		return storage.NewNoopStorage(), nil
	}

	client, err := storage.NewS3Client(ctx, storage.ClientConfig{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
	if err != nil {
		return nil, err
	}

	return storage.NewS3Storage(client, cfg.Bucket, cfg.PublicBaseURL), nil
}
