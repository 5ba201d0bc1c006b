// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

var (
	// ErrUnauthorized is returned when the server rejects the session token.
	ErrUnauthorized = errors.New("not authenticated")

	// ErrNotFound is returned when a task or subtask does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRejected is returned when the server refuses a request as invalid.
	ErrRejected = errors.New("rejected")
)

// Service defines the interface for task backend operations.
// All REST calls go through this interface.
// Commands never import the HTTP client directly.
type Service interface {
	// ListTasks returns all tasks of the current user in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task with its subtasks.
	GetTask(ctx context.Context, id int) (Task, error)

	// CreateTask creates a task. The server appends it at the last position.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask applies a partial update.
	UpdateTask(ctx context.Context, id int, upd TaskUpdate) (Task, error)

	// DeleteTask deletes a task and its subtasks.
	DeleteTask(ctx context.Context, id int) error

	// DeleteCompleted deletes every completed task and returns the count.
	DeleteCompleted(ctx context.Context) (int, error)

	// UpdatePositions persists task id -> position in one batch call.
	UpdatePositions(ctx context.Context, positions map[int]int) error

	// AddSubtask adds a subtask to a task.
	AddSubtask(ctx context.Context, taskID int, title string) (Subtask, error)

	// SetSubtaskCompleted marks a subtask completed or open.
	SetSubtaskCompleted(ctx context.Context, taskID, subtaskID int, completed bool) (Subtask, error)

	// DeleteSubtask deletes a subtask.
	DeleteSubtask(ctx context.Context, taskID, subtaskID int) error
}

// Authenticator handles account creation and token issuance.
type Authenticator interface {
	// Register creates an account. It does not log in.
	Register(ctx context.Context, r Registration) (Account, error)

	// Login exchanges username and password for a bearer token.
	Login(ctx context.Context, username, password string) (*oauth2.Token, error)
}
