package repository

import (
	"context"
	"sync"

	"task_manager/internal/domain"

	"github.com/google/uuid"
)

// MemoryTaskRepository keeps tasks in process memory, in insertion order
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]domain.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]domain.Task),
	}
}

func (r *MemoryTaskRepository) Create(_ context.Context, t *domain.Task) error {
	t.ID = uuid.New().String()

	r.mu.Lock()
	r.tasks[t.ID] = *t
	r.order = append(r.order, t.ID)
	r.mu.Unlock()

	return nil
}

func (r *MemoryTaskRepository) Find(_ context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*domain.Task, 0)
	for _, id := range r.order {
		t := r.tasks[id]
		if f.Matches(t) {
			res = append(res, &t)
		}
	}
	return res, nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.RLock()
	t, ok := r.tasks[id]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *MemoryTaskRepository) UpdateByID(_ context.Context, id string, p domain.TaskPatch) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Apply(&t)
	r.tasks[id] = t
	return &t, nil
}

func (r *MemoryTaskRepository) DeleteByID(_ context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &t, nil
}

func (r *MemoryTaskRepository) Ping(context.Context) error {
	return nil
}
