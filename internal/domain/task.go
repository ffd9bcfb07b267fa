package domain

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusCompleted TaskStatus = "Completed"
)

// DefaultTaskStatus is applied when a task is created without a status
const DefaultTaskStatus = TaskStatusPending

// TaskStatuses lists every accepted status, in display order
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusCompleted}

// Valid reports whether s is one of the enumerated statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"required,notblank"`
	Description string     `json:"description" validate:"required,notblank"`
	Status      TaskStatus `json:"status" validate:"taskstatus"`
	DueDate     time.Time  `json:"dueDate" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "taskstatus", func(fl validator.FieldLevel) bool {
		return TaskStatus(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

// NewTask builds a task for insertion. An empty status becomes DefaultTaskStatus.
func NewTask(title, description string, status TaskStatus, dueDate time.Time) (*Task, error) {
	if status == "" {
		status = DefaultTaskStatus
	}
	t := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     NormalizeDueDate(dueDate),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the record constraints and returns a *ValidationError on failure
func (t *Task) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		if !t.DueDate.IsZero() && !DueDateInRange(t.DueDate) {
			return dueDateRangeError()
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: err.Error()}
	}

	ve := &ValidationError{}
	var msgs []string
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fe.Field())
		switch fe.Tag() {
		case "taskstatus":
			msgs = append(msgs, invalidStatusMessage)
		default:
			msgs = append(msgs, fe.Field()+" is required")
		}
	}
	ve.Message = strings.Join(msgs, "; ")
	return ve
}

// NormalizeDueDate stores due dates in UTC at millisecond precision,
// the resolution of a BSON datetime.
func NormalizeDueDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DueDateInRange reports whether t, in UTC, falls in years 0..9999,
// the range a due date can be rendered as an RFC 3339 JSON string
func DueDateInRange(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}

func dueDateRangeError() *ValidationError {
	return NewValidationError("Invalid dueDate. The year must be between 0000 and 9999 in UTC.", "dueDate")
}

// ParseDueDate parses a due date from a request. Values without a zone are UTC.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = NormalizeDueDate(t)
			if !DueDateInRange(t) {
				return time.Time{}, dueDateRangeError()
			}
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{
		Message: "Invalid dueDate " + `"` + s + `"` + ". Use an ISO 8601 date such as 2025-01-01.",
		Fields:  []string{"dueDate"},
	}
}
