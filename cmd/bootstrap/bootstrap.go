package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"findmyclinic/config"
	deliveryHttp "findmyclinic/internal/delivery/http"
	"findmyclinic/internal/delivery/http/handler"
	"findmyclinic/internal/delivery/http/middleware"
	"findmyclinic/internal/delivery/ws"
	"findmyclinic/internal/infrastructure/cache"
	"findmyclinic/internal/infrastructure/database"
	"findmyclinic/internal/repository"
	"findmyclinic/internal/service"
	"findmyclinic/internal/usecase"
	"findmyclinic/pkg/jwt"
	"findmyclinic/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	profileRepo := repository.NewUserProfileRepository()
	roleRepo := repository.NewRoleRepository()
	patientRepo := repository.NewPatientRepository()
	clinicRepo := repository.NewClinicRepository()
	doctorRepo := repository.NewDoctorRepository()
	tokenRepo := repository.NewQueueTokenRepository()
	auditRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditRepo)
	tokenCounter := service.NewTokenCounterService(db, redisClient, log)
	queueEvents := service.NewQueueEventsService(redisClient, log)

	// Seed per-clinic counters from the database. Failure is not fatal:
	// unseeded counters are seeded lazily on first use.
	syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := tokenCounter.SyncOnStartup(syncCtx); err != nil {
		log.Warnf("Failed to sync token counters on startup: %+v", err)
	}

	analyzer, err := service.NewSymptomAnalyzerService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize symptom analyzer: %w", err)
	}

	// Initialize usecases
	estimator := usecase.NewWaitEstimator(db, log, tokenRepo)
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, profileRepo, roleRepo, jwtService, redisClient, auditService)
	bookingUsecase := usecase.NewBookingUsecase(db, log, tokenRepo, patientRepo, clinicRepo, doctorRepo, userRepo, profileRepo, tokenCounter, queueEvents, estimator, auditService)
	queueStatusUsecase := usecase.NewQueueStatusUsecase(db, log, tokenRepo)
	clinicUsecase := usecase.NewClinicUsecase(db, log, clinicRepo, tokenRepo, estimator)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo)
	symptomUsecase := usecase.NewSymptomAnalysisUsecase(log, analyzer)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	clinicHandler := handler.NewClinicHandler(clinicUsecase)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	queueHandler := handler.NewQueueHandler(queueStatusUsecase, customValidator)
	symptomHandler := handler.NewSymptomHandler(symptomUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	queueFeed := ws.NewQueueFeedHandler(log, queueEvents, queueStatusUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, clinicHandler, doctorHandler, bookingHandler, queueHandler, symptomHandler, auditLogHandler, queueFeed, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
