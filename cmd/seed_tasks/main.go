package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"task_manager/internal/config"
	"task_manager/internal/db"
	"task_manager/internal/logger"
	"task_manager/internal/repository"
	"task_manager/internal/service"
)

// Inserts a handful of sample tasks into the configured store
func main() {
	count := flag.Int("n", 5, "number of tasks to create")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	var repo repository.TaskRepository
	switch cfg.StoreDriver {
	case config.DriverMongo:
		mdb := db.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase)
		defer db.DisconnectMongo(mdb)
		repo = repository.NewMongoTaskRepository(mdb)
	case config.DriverPostgres:
		pool := db.ConnectPostgres(cfg.DatabaseURL)
		defer pool.Close()
		repo = repository.NewPostgresTaskRepository(pool)
	default:
		logger.Fatal("seeding needs a persistent store", "store", cfg.StoreDriver)
	}

	svc := service.NewTaskService(repo)
	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for i := 0; i < *count; i++ {
		status := "Pending"
		if i%3 == 2 {
			status = "Completed"
		}

		task, err := svc.Create(ctx, service.CreateTaskInput{
			Title:       fmt.Sprintf("Sample task %d", i+1),
			Description: "Seeded for local testing",
			Status:      status,
			DueDate:     today.AddDate(0, 0, i).Format("2006-01-02"),
		})
		if err != nil {
			logger.Error("create task failed", "error", err)
			continue
		}
		logger.Info("task seeded", "id", task.ID, "status", task.Status, "due", task.DueDate)
	}

	// verify read back
	all, err := svc.List(ctx, "", "")
	if err != nil {
		logger.Fatal("list tasks failed", "error", err)
	}
	logger.Info("store now holds tasks", "count", len(all))
}
