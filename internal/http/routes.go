package http

import (
	"time"

	"task_manager/internal/http/handlers"
	"task_manager/internal/http/middleware"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// RouteOptions configures the router around the task endpoints
type RouteOptions struct {
	Version   string
	StoreName string

	// RateLimit <= 0 disables rate limiting. A nil Redis client selects the in-memory limiter.
	RateLimit  int
	RateWindow time.Duration
	Redis      *redis.Client
}

// NewRouter builds the gin engine with the service's middleware stack
func NewRouter(tasks *service.TaskService, opts RouteOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())
	RegisterRoutes(r, tasks, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, tasks *service.TaskService, opts RouteOptions) {
	h := handlers.NewHandler(tasks)
	healthHandler := handlers.NewHealthHandler(tasks, opts.StoreName, opts.Version)

	// Health checks and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/tasks")
	if opts.RateLimit > 0 {
		if opts.Redis != nil {
			api.Use(middleware.RedisRateLimit(opts.Redis, opts.RateLimit, opts.RateWindow))
		} else {
			api.Use(middleware.MemoryRateLimit(opts.RateLimit, opts.RateWindow))
		}
	}
	registerTaskRoutes(api, h)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	api.POST("", h.CreateTask)
	api.GET("", h.ListTasks)

	// static segments take precedence over :id
	api.GET("/status/:status", h.ListTasksByStatus)
	api.GET("/dueDate/:dueDate", h.ListTasksByDueDate)

	api.GET("/:id", h.GetTask)
	api.PUT("/:id", h.UpdateTask)
	api.DELETE("/:id", h.DeleteTask)
}
