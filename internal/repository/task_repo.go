package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_manager/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id::text, title, description, status, due_date`

type PostgresTaskRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTaskRepository(db *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Find(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	where, args := pgWhere(f)
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return res, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	id := uuid.New().String()
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (id, title, description, status, due_date) VALUES ($1,$2,$3,$4,$5) RETURNING id::text`,
		id, t.Title, t.Description, string(t.Status), t.DueDate,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) UpdateByID(ctx context.Context, id string, p domain.TaskPatch) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	var status *string
	if p.Status != nil {
		s := string(*p.Status)
		status = &s
	}
	var due *time.Time
	if p.DueDate != nil {
		d := domain.NormalizeDueDate(*p.DueDate)
		due = &d
	}

	t, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			due_date = COALESCE($5, due_date)
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, p.Title, p.Description, status, due,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) DeleteByID(ctx context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	t, err := scanTask(r.db.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete task %s: %w", id, err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t      domain.Task
		status string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.DueDate); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.DueDate = t.DueDate.UTC()
	return &t, nil
}

// pgWhere renders the filter as a parameterised WHERE clause
func pgWhere(f domain.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.DueOnOrBefore != nil {
		args = append(args, *f.DueOnOrBefore)
		conds = append(conds, fmt.Sprintf("due_date <= $%d", len(args)))
	}
	if f.DueOn != nil {
		args = append(args, *f.DueOn)
		conds = append(conds, fmt.Sprintf("due_date = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
