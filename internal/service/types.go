// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// Priority is a task priority.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Category is an optional task category. The empty value means none.
type Category string

const (
	CategoryNone     Category = ""
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
	CategorySport    Category = "sport"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryStudy, CategorySport}

// Task represents a single task item.
type Task struct {
	ID        int
	Title     string
	Completed bool
	Priority  Priority
	Category  Category
	Deadline  *time.Time // nil if the task has no deadline
	Position  int
	CreatedAt time.Time // zero if the server did not report it
	Subtasks  []Subtask
}

// Overdue reports whether an open task's deadline has passed.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.Deadline != nil && t.Deadline.Before(now)
}

// SubtaskProgress returns completed and total subtask counts.
func (t Task) SubtaskProgress() (done, total int) {
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// Subtask is a checklist item belonging to exactly one task.
type Subtask struct {
	ID        int
	TaskID    int
	Title     string
	Completed bool
}

// NewTask holds the fields for creating a task.
type NewTask struct {
	Title    string
	Priority Priority
	Category Category
	Deadline *time.Time
}

// TaskUpdate holds a partial task update. Nil fields are left unchanged.
type TaskUpdate struct {
	Title     *string
	Completed *bool
	Priority  *Priority
	Category  *Category
	Deadline  *time.Time
}

// Registration holds the fields for creating an account.
type Registration struct {
	Username string
	Email    string
	Password string
}

// Account is a registered user as reported by the server.
type Account struct {
	ID       int
	Username string
	Email    string
}
