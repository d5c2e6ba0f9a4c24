package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betjuliano/sefa-dashboard/internal/cache"
	"github.com/betjuliano/sefa-dashboard/internal/config"
	"github.com/betjuliano/sefa-dashboard/internal/pipeline"
	"github.com/betjuliano/sefa-dashboard/internal/repository"
	"github.com/betjuliano/sefa-dashboard/internal/schema"
	"github.com/betjuliano/sefa-dashboard/internal/service"
	"github.com/betjuliano/sefa-dashboard/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load questionnaire schemas (built-in defaults plus optional overrides)
	schemas, report, err := schema.Load(cfg.SchemaBase20Path, cfg.SchemaBase8Path)
	if err != nil {
		for _, issue := range report.Issues {
			log.Printf("schema [%s] %s: %s", issue.Severity, issue.Kind, issue.Message)
		}
		log.Fatal("Failed to load schemas:", err)
	}
	for _, issue := range report.Warnings() {
		log.Printf("schema warning [%s]: %s", issue.Kind, issue.Message)
	}
	log.Printf("Loaded %d questionnaire schemas", len(schemas))

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisURI
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories and caches
	uploadRepo := repository.NewUploadRepo(db)
	resultCache := cache.NewResultCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg)
	uploadSvc := service.NewUploadService(uploadRepo, resultCache, cfg.MaxUploadBytes)
	processor := pipeline.NewProcessor(schemas)
	processingSvc := service.NewProcessingService(processor, uploadRepo, resultCache, cfg.DefaultGoal)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		UploadService:     uploadSvc,
		ProcessingService: processingSvc,
		Schemas:           schemas,
		MaxUploadBytes:    cfg.MaxUploadBytes,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/uploads")
		log.Println("  DELETE /v1/uploads/{uploadId}")
		log.Println("  GET  /v1/uploads/{uploadId}/results")
		log.Println("  GET  /v1/schemas")
		log.Println("  GET  /v1/schemas/{set}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
