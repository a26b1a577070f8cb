package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cropcheckai/cropcheck/internal/config"
	"github.com/cropcheckai/cropcheck/internal/http/handlers"
	"github.com/cropcheckai/cropcheck/internal/http/routes"
	"github.com/cropcheckai/cropcheck/internal/jamai"
	"github.com/cropcheckai/cropcheck/internal/services/analyzer"
	"github.com/cropcheckai/cropcheck/internal/services/jobs"
	"github.com/cropcheckai/cropcheck/internal/services/processor"
	"github.com/cropcheckai/cropcheck/internal/services/queue"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Hosted analysis service client
	client, err := jamai.NewClient(cfg.JamAI, logger)
	if err != nil {
		logger.Fatal("Failed to initialize analysis client", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	jobStore := jobs.NewStore(redisClient, cfg.Jobs.TTL)
	intake := processor.NewIntake(cfg.Upload)
	analysisService := analyzer.NewService(client, cfg.JamAI, logger)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// The async path is optional; the synchronous endpoints keep working
	// without RabbitMQ.
	var jobQueue handlers.JobQueue
	queueService, err := queue.NewService(cfg.RabbitMQ.URL, analysisService, jobStore, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service", zap.Error(err))
	} else {
		defer queueService.Close()
		jobQueue = queueService
		if err := queueService.StartWorker(workerCtx, 1); err != nil {
			logger.Warn("Failed to start analysis worker", zap.Error(err))
		}
	}

	// Initialize handlers
	caseHandler := handlers.NewCaseHandler(analysisService, intake, jobQueue, jobStore, client, logger, cfg)

	router := routes.NewRouter(caseHandler, redisClient, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	stopWorkers()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
