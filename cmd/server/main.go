package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-events/config"
	"go-gin-events/internal/cache"
	"go-gin-events/internal/database"
	"go-gin-events/internal/handler"
	"go-gin-events/internal/repository"
	"go-gin-events/internal/service"
	"go-gin-events/internal/store"
	"go-gin-events/internal/store/memory"
	"go-gin-events/internal/store/postgres"
	"go-gin-events/internal/store/rest"
	"go-gin-events/internal/worker"
	"go-gin-events/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
		log.Fatalf("Invalid LOG_LEVEL: %v", err)
	}
	defer logger.L.Sync()
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, closeStore, err := newStoreClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize store", zap.String("backend", string(cfg.Store.Backend)), zap.Error(err))
	}
	defer closeStore()

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	queryCache := cache.NewRedisQueryCache(rdb, cfg.Cache.StaleTime)
	eventService := service.NewEventService(repository.NewEventRepository(client), queryCache)

	refreshWorker := worker.NewRefreshWorker(eventService, queryCache)
	if err := refreshWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start refresh worker", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	handler.NewEventHandler(eventService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", cfg.Server.Addr), zap.String("store", string(cfg.Store.Backend)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	<-refreshWorker.Done()
}

// newStoreClient 依 STORE_BACKEND 建立遠端 store，回傳的 close 函式負責釋放連線
func newStoreClient(ctx context.Context, cfg *config.Config) (store.Client, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pool, err := database.InitDatabase(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewClient(pool), pool.Close, nil
	case config.StoreBackendMemory:
		return memory.NewClient(), func() {}, nil
	default:
		return rest.NewClient(cfg.Store.URL, cfg.Store.APIKey), func() {}, nil
	}
}
