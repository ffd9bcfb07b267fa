package handlers

import (
	"errors"
	"io"
	"net/http"

	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Omitted fields keep their value.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}

// bindJSON decodes the body; an empty body decodes to the zero request
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return false
	}
	return true
}

// CreateTask handles POST /tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.TaskService.Create(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err, "Error saving task.")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks handles GET /tasks?status=&dueDate=
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.TaskService.List(c.Request.Context(), c.Query("status"), c.Query("dueDate"))
	if err != nil {
		respondError(c, err, "Error fetching tasks.")
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTask handles GET /tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.TaskService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Error fetching task.")
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.TaskService.Update(c.Request.Context(), c.Param("id"), service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err, "Error updating task.")
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.TaskService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Error deleting task.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTasksByStatus handles GET /tasks/status/:status
func (h *Handler) ListTasksByStatus(c *gin.Context) {
	tasks, err := h.TaskService.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondError(c, err, "Error fetching tasks by status.")
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// ListTasksByDueDate handles GET /tasks/dueDate/:dueDate
func (h *Handler) ListTasksByDueDate(c *gin.Context) {
	tasks, err := h.TaskService.ListByDueDate(c.Request.Context(), c.Param("dueDate"))
	if err != nil {
		respondError(c, err, "Error fetching tasks by due date.")
		return
	}

	c.JSON(http.StatusOK, tasks)
}
