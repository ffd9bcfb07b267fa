package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task_manager/internal/domain"
	"task_manager/internal/logger"
	"task_manager/internal/repository"
)

const requiredFieldsMessage = "Title, description, and dueDate are required."

// CreateTaskInput is the decoded create request
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     string
}

// UpdateTaskInput is the decoded update request. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *string
}

// TaskService validates task operations and runs them against the repository
type TaskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a task service over the given store handle
func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Create validates the input and inserts a new task
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(in.DueDate) == "" {
		missing = append(missing, "dueDate")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(requiredFieldsMessage, missing...)
	}

	due, err := domain.ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(in.Title, in.Description, domain.TaskStatus(in.Status), due)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, s.storageError(ctx, "insert", err)
	}

	logger.WithContext(ctx).Info("task created", "id", task.ID, "status", task.Status)
	return task, nil
}

// List returns tasks matching the optional status and dueDate (inclusive upper bound).
// An empty result is not an error.
func (s *TaskService) List(ctx context.Context, status, dueDate string) ([]*domain.Task, error) {
	f, err := domain.BuildTaskFilter(status, dueDate)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, s.storageError(ctx, "find", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Get returns a single task
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, "find", err)
	}
	return task, nil
}

// Update merges the supplied fields into the stored task
func (s *TaskService) Update(ctx context.Context, id string, in UpdateTaskInput) (*domain.Task, error) {
	patch := domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
	}
	if in.Status != nil {
		st := domain.TaskStatus(*in.Status)
		patch.Status = &st
	}
	if in.DueDate != nil {
		due, err := domain.ParseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		patch.DueDate = &due
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	task, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, s.storageError(ctx, "update", err)
	}

	logger.WithContext(ctx).Info("task updated", "id", task.ID)
	return task, nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.storageError(ctx, "delete", err)
	}

	logger.WithContext(ctx).Info("task deleted", "id", id)
	return nil
}

// ListByStatus returns tasks with exactly the given status.
// Unlike List, an empty result is reported as not found.
func (s *TaskService) ListByStatus(ctx context.Context, status string) ([]*domain.Task, error) {
	st := domain.TaskStatus(status)
	if !st.Valid() {
		return nil, domain.InvalidStatusError()
	}

	tasks, err := s.repo.Find(ctx, domain.StatusFilter(st))
	if err != nil {
		return nil, s.storageError(ctx, "find", err)
	}
	if len(tasks) == 0 {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("No tasks found with status %s.", status)}
	}
	return tasks, nil
}

// ListByDueDate returns tasks due exactly at dueDate. An empty result is not found.
func (s *TaskService) ListByDueDate(ctx context.Context, dueDate string) ([]*domain.Task, error) {
	due, err := domain.ParseDueDate(dueDate)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.Find(ctx, domain.DueDateFilter(due))
	if err != nil {
		return nil, s.storageError(ctx, "find", err)
	}
	if len(tasks) == 0 {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("No tasks found with this due date %s.", dueDate)}
	}
	return tasks, nil
}

// Ping checks the storage backend
func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TaskService) storageError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &domain.NotFoundError{Message: "Task not found."}
	case errors.Is(err, repository.ErrInvalidID):
		return domain.NewValidationError("Invalid task id.", "id")
	}

	logger.WithContext(ctx).Error("task storage failure", "op", op, "error", err)
	return &domain.StorageError{Op: op, Err: err}
}
