package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"task_manager/internal/config"
	"task_manager/internal/db"
	httpServer "task_manager/internal/http"
	"task_manager/internal/http/middleware"
	"task_manager/internal/logger"
	"task_manager/internal/repository"
	"task_manager/internal/service"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	var repo repository.TaskRepository
	switch cfg.StoreDriver {
	case config.DriverMongo:
		mdb := db.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase)
		defer db.DisconnectMongo(mdb)

		mongoRepo := repository.NewMongoTaskRepository(mdb)
		if err := mongoRepo.EnsureIndexes(context.Background()); err != nil {
			logger.Warn("failed to ensure task indexes", "error", err)
		}
		repo = mongoRepo
	case config.DriverPostgres:
		pool := db.ConnectPostgres(cfg.DatabaseURL)
		defer pool.Close()
		repo = repository.NewPostgresTaskRepository(pool)
	default:
		logger.Warn("using in-memory task store; data is lost on restart")
		repo = repository.NewMemoryTaskRepository()
	}

	rdb := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	tasks := service.NewTaskService(repo)
	r := httpServer.NewRouter(tasks, httpServer.RouteOptions{
		Version:    version,
		StoreName:  cfg.StoreDriver,
		RateLimit:  cfg.APIRateLimit,
		RateWindow: cfg.APIRateWindow,
		Redis:      rdb,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "store", cfg.StoreDriver, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
