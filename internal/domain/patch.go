package domain

import (
	"strings"
	"time"
)

// TaskPatch carries the fields supplied to an update. Nil fields keep their stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

// Validate rejects supplied fields that would break the record constraints
func (p TaskPatch) Validate() error {
	var fields []string
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		fields = append(fields, "title")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		fields = append(fields, "description")
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		fields = append(fields, "dueDate")
	}
	if len(fields) > 0 {
		return NewValidationError(strings.Join(fields, ", ")+" cannot be empty.", fields...)
	}
	if p.DueDate != nil && !DueDateInRange(*p.DueDate) {
		return dueDateRangeError()
	}
	if p.Status != nil && !p.Status.Valid() {
		return InvalidStatusError()
	}
	return nil
}

// Apply writes the supplied fields onto t
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = NormalizeDueDate(*p.DueDate)
	}
}
