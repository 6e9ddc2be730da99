package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
	"alfredoptarigan/resume-analyzer/pkg/logger"
	"alfredoptarigan/resume-analyzer/pkg/metrics"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal(ctx, "❌ Failed to load config", logger.Error(err))
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		logger.Get().Fatal(ctx, "❌ Failed to initialize logger", logger.Error(err))
	}
	log := logger.Named("api")
	log.Info(ctx, "✅ Config loaded successfully", logger.String("env", cfg.Server.Env))

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal(ctx, "❌ Failed to initialize database", logger.Error(err))
	}

	analysisRepo := repositories.NewAnalysisRepository(db)
	log.Info(ctx, "✅ Repositories initialized successfully",
		logger.String("driver", cfg.Database.Driver))

	// Initialize services
	storageService, err := services.NewStorageService(ctx, cfg)
	if err != nil {
		log.Fatal(ctx, "❌ Failed to initialize upload storage", logger.Error(err))
	}

	var metricsManager *metrics.Manager
	if cfg.Metrics.Enabled {
		metricsManager = metrics.New()
	}

	parser := services.NewResumeParserService()
	analyzerService := services.NewAnalyzerService(
		parser,
		analysisRepo,
		storageService,
		metricsManager,
		logger.Named("analyzer"),
	)
	log.Info(ctx, "✅ Services initialized successfully",
		logger.String("storage", cfg.Storage.Backend))

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, cfg.Storage.MaxFileSize)
	historyHandler := handlers.NewHistoryHandler(analysisRepo)
	log.Info(ctx, "✅ Handlers initialized")

	// Create Fiber app. The body limit leaves room for the multipart envelope
	// so oversized files reach the handler and get a 413 with a message.
	bodyLimit := int(cfg.Storage.MaxFileSize) + 1<<20

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if metricsManager != nil {
		app.Use(handlers.MetricsMiddleware(metricsManager))
		app.Get("/metrics", adaptor.HTTPHandler(metricsManager.Handler()))
	}

	// Routes
	handlers.RegisterRoutes(app, analyzeHandler, historyHandler)
	app.Use(handlers.NotFound)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info(ctx, "🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error(ctx, "❌ Server forced to shutdown", logger.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info(ctx, "🚀 Server starting", logger.String("addr", addr))
	log.Info(ctx, "📖 API overview", logger.String("url", "http://localhost"+addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal(ctx, "❌ Failed to start server", logger.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
