// ABOUTME: Task is a single to-do item owned by exactly one user
// ABOUTME: TaskFilter selects all, pending, or completed tasks for list operations
package models

import (
	"fmt"
	"strings"
	"time"
)

// Task is a to-do item. Every read or write is scoped by (ID, UserID).
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskFilter restricts a task listing by completion state
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter maps a caller-supplied status to a TaskFilter.
// An empty status means all tasks.
func ParseTaskFilter(status string) (TaskFilter, error) {
	switch TaskFilter(strings.ToLower(strings.TrimSpace(status))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown task status %q (want all, pending or completed)", ErrInvalidFormat, status)
	}
}

// Matches reports whether a task passes the filter
func (f TaskFilter) Matches(t *Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}
