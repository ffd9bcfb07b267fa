package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	readinessTimeout = 5 * time.Second
	healthTimeout    = 3 * time.Second
)

// Pinger reports whether the task store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the probe endpoints. None of them touch task data.
type HealthHandler struct {
	store     Pinger
	storeName string
	started   time.Time
	version   string
}

func NewHealthHandler(store Pinger, storeName, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		storeName: storeName,
		started:   time.Now(),
		version:   version,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// pingStore runs a bounded store ping and returns the check result and its latency
func (h *HealthHandler) pingStore(parent context.Context, timeout time.Duration) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	return time.Since(start), err
}

// Liveness answers as long as the process serves HTTP
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports the store check plus runtime figures; 503 when the store is down
func (h *HealthHandler) Readiness(c *gin.Context) {
	latency, err := h.pingStore(c.Request.Context(), readinessTimeout)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks: map[string]string{
			"memory_alloc_mb": formatMB(m.Alloc),
			"goroutines":      fmt.Sprint(runtime.NumGoroutine()),
		},
	}

	code := http.StatusOK
	if err != nil {
		resp.Status = "unhealthy"
		resp.Checks[h.storeName] = "unhealthy: " + err.Error()
		code = http.StatusServiceUnavailable
	} else {
		resp.Checks[h.storeName] = "healthy"
		resp.Checks[h.storeName+"_latency_ms"] = fmt.Sprint(latency.Milliseconds())
	}

	c.JSON(code, resp)
}

// Health is the short form of Readiness
func (h *HealthHandler) Health(c *gin.Context) {
	if _, err := h.pingStore(c.Request.Context(), healthTimeout); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  h.storeName + " unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

func formatMB(bytes uint64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/(1<<20))
}
