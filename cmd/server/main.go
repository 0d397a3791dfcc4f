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

	"github.com/KennethOlivas/type-form-builder-sub000/internal/cache"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/config"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/pkg/workerpool"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/repository"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/service"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/transport/rest"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Worker pool for fire-and-forget visit event writes
	pool := workerpool.NewWorkerPool(ctx, 4, 1024)

	// WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories
	formRepo := repository.NewFormRepo(db)
	visitRepo := repository.NewVisitRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)

	// Caches
	sessionCache := cache.NewSessionCache(rdb)
	reportCache := cache.NewReportCache(rdb)

	// Services
	evaluator := service.NewRuleEvaluator()
	graphSvc := service.NewGraphService()
	formSvc := service.NewFormService(formRepo, graphSvc)
	visitSvc := service.NewVisitService(visitRepo, pool)
	submissionSvc := service.NewSubmissionService(submissionRepo)
	flowSvc := service.NewFlowService(formRepo, sessionCache, evaluator, visitSvc, submissionSvc)
	analyticsSvc := service.NewAnalyticsService(formRepo, visitRepo, submissionRepo, reportCache)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	visitSvc.SetBroadcaster(wsHub)
	submissionSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		FormService:       formSvc,
		FlowService:       flowSvc,
		AnalyticsService:  analyticsSvc,
		SubmissionService: submissionSvc,
		WSHub:             wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
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

	// Drain pending visit-event writes before exiting
	pool.Shutdown(shutdownCtx)

	log.Println("Server exited")
}
