package domain

import "time"

// TaskFilter is a conjunction of optional constraints. The zero value matches every task.
type TaskFilter struct {
	Status        *TaskStatus
	DueOnOrBefore *time.Time
	DueOn         *time.Time
}

// BuildTaskFilter translates the list query parameters into a filter.
// status is passed through unchecked: an unknown value simply matches nothing.
// dueDate is an inclusive upper bound.
func BuildTaskFilter(status, dueDate string) (TaskFilter, error) {
	var f TaskFilter
	if status != "" {
		s := TaskStatus(status)
		f.Status = &s
	}
	if dueDate != "" {
		d, err := ParseDueDate(dueDate)
		if err != nil {
			return TaskFilter{}, err
		}
		f.DueOnOrBefore = &d
	}
	return f, nil
}

// StatusFilter matches tasks with exactly the given status
func StatusFilter(s TaskStatus) TaskFilter {
	return TaskFilter{Status: &s}
}

// DueDateFilter matches tasks due exactly at d
func DueDateFilter(d time.Time) TaskFilter {
	d = NormalizeDueDate(d)
	return TaskFilter{DueOn: &d}
}

// IsEmpty reports whether the filter has no constraints
func (f TaskFilter) IsEmpty() bool {
	return f.Status == nil && f.DueOnOrBefore == nil && f.DueOn == nil
}

// Matches evaluates the filter against a single task
func (f TaskFilter) Matches(t Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.DueOnOrBefore != nil && t.DueDate.After(*f.DueOnOrBefore) {
		return false
	}
	if f.DueOn != nil && !t.DueDate.Equal(*f.DueOn) {
		return false
	}
	return true
}
