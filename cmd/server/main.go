package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	httpapi "awn-backend/internal/api/http"
	"awn-backend/internal/config"
	"awn-backend/internal/engine"
	"awn-backend/internal/logger"
	"awn-backend/internal/ratelimit"
	"awn-backend/internal/repository/postgres"
	"awn-backend/internal/security"
	"awn-backend/internal/service"
	"awn-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Awn backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Redis for the coupon attempt limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancel()
		logger.Error("Failed to ping Redis", "error", err)
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	cancel()
	logger.Info("Redis connection established", "addr", cfg.Redis.Addr)

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Document Storage
	docStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize document storage", "error", err)
		log.Fatalf("Failed to initialize document storage: %v", err)
	}
	logger.Info("Using local document storage", "upload_dir", cfg.Storage.UploadDir)

	// Initialize Generation Engine
	gemini := engine.NewGeminiEngine(
		cfg.Engine.APIKey,
		cfg.Engine.Model,
		cfg.Engine.BaseURL,
		time.Duration(cfg.Engine.TimeoutSeconds)*time.Second,
	)

	// Initialize Services
	creditSvc := service.NewCreditService(store.CreditRepository, store.CreditSettingRepository)
	limiter := ratelimit.NewRedisLimiter(
		redisClient,
		cfg.Coupons.MaxAttempts,
		time.Duration(cfg.Coupons.AttemptWindowMins)*time.Minute,
	)
	couponSvc := service.NewCouponService(
		store.CouponRepository,
		limiter,
		time.Duration(cfg.Coupons.ResponseDelayMS)*time.Millisecond,
	)
	generationSvc := service.NewGenerationService(
		creditSvc,
		store.DocumentRepository,
		store.SummaryRepository,
		store.QuizRepository,
		docStore,
		gemini,
	)
	summarySvc := service.NewSummaryService(store.SummaryRepository)
	quizSvc := service.NewQuizService(store.QuizRepository)
	documentSvc := service.NewDocumentService(store.DocumentRepository, docStore, int(cfg.Storage.MaxFileSizeMB))
	adminSvc := service.NewAdminService(
		store.CreditSettingRepository,
		store.CouponRepository,
		store.CreditRepository,
		store.ActivityLogRepository,
	)

	// Initialize HTTP handlers and router
	handlers := httpapi.Handlers{
		Credits:    httpapi.NewCreditHandler(creditSvc, couponSvc),
		Generation: httpapi.NewGenerationHandler(generationSvc),
		Study:      httpapi.NewStudyHandler(summarySvc, quizSvc),
		Documents:  httpapi.NewDocumentHandler(documentSvc, docStore),
		Admin:      httpapi.NewAdminHandler(adminSvc),
	}
	router := httpapi.NewRouter(handlers, tokenManager)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.Engine.TimeoutSeconds+30) * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
