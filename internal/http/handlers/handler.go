package handlers

import (
	"errors"
	"net/http"

	"task_manager/internal/domain"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	TaskService *service.TaskService
}

func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{
		TaskService: tasks,
	}
}

// respondError maps a service error to a status code. Storage failures are
// reported with the fixed message so backend details never reach the client.
func respondError(c *gin.Context, err error, storageMsg string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": storageMsg})
	}
}
