package repository

import (
	"context"
	"errors"

	"task_manager/internal/domain"
)

// ErrInvalidID is returned when an id cannot address a record in the backend
var ErrInvalidID = errors.New("invalid task id")

// TaskRepository is the storage handle shared by every request.
// Lookups by id return domain.ErrNotFound when nothing matches.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	Find(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	UpdateByID(ctx context.Context, id string, p domain.TaskPatch) (*domain.Task, error)
	DeleteByID(ctx context.Context, id string) (*domain.Task, error)
	Ping(ctx context.Context) error
}
