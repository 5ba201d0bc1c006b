// Package board keeps a local copy of the task list and derives views from it.
//
// Every write goes to the server first; on success the whole list is fetched
// again so the local copy never diverges from what the server holds.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"todo/internal/service"
)

// ReloadError is returned by a write whose request succeeded but whose
// reload afterwards failed. The server holds the change; the cache may not.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string {
	return "saved, but the task list could not be reloaded: " + e.Err.Error()
}

func (e *ReloadError) Unwrap() error { return e.Err }

// IsReloadError reports whether err only failed at the reload after a write.
func IsReloadError(err error) bool {
	var rerr *ReloadError
	return errors.As(err, &rerr)
}

// Board is a cached, position-ordered task list backed by a service.
type Board struct {
	svc   service.Service
	tasks []service.Task
}

// New creates an empty board. Call Refresh to load it.
func New(svc service.Service) *Board {
	return &Board{svc: svc}
}

// Load creates a board and fetches the task list.
func Load(ctx context.Context, svc service.Service) (*Board, error) {
	b := New(svc)
	if err := b.Refresh(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Refresh replaces the cache with the server's task list.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.svc.ListTasks(ctx)
	if err != nil {
		return err
	}
	b.tasks = SortTasks(tasks, SortPosition)
	return nil
}

// reload refreshes after a successful write.
func (b *Board) reload(ctx context.Context) error {
	if err := b.Refresh(ctx); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}

// Tasks returns the cached tasks in position order.
// The slice is a copy; the tasks share subtask slices with the cache.
func (b *Board) Tasks() []service.Task {
	out := make([]service.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Find returns the cached task with the given id.
func (b *Board) Find(id int) (service.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// CompletedCount returns the number of completed tasks in the cache.
func (b *Board) CompletedCount() int {
	n := 0
	for _, t := range b.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Create adds a task and reloads.
func (b *Board) Create(ctx context.Context, t service.NewTask) (service.Task, error) {
	created, err := b.svc.CreateTask(ctx, t)
	if err != nil {
		return service.Task{}, err
	}
	return created, b.reload(ctx)
}

// Update applies a partial update and reloads.
func (b *Board) Update(ctx context.Context, id int, upd service.TaskUpdate) error {
	if _, err := b.svc.UpdateTask(ctx, id, upd); err != nil {
		return err
	}
	return b.reload(ctx)
}

// SetCompleted marks a task completed or open and reloads.
func (b *Board) SetCompleted(ctx context.Context, id int, completed bool) error {
	return b.Update(ctx, id, service.TaskUpdate{Completed: &completed})
}

// Delete removes a task and reloads. If the reload fails the task is
// still dropped from the cache.
func (b *Board) Delete(ctx context.Context, id int) error {
	if err := b.svc.DeleteTask(ctx, id); err != nil {
		return err
	}
	if err := b.reload(ctx); err != nil {
		b.tasks = slices.DeleteFunc(b.tasks, func(t service.Task) bool { return t.ID == id })
		return err
	}
	return nil
}

// ClearCompleted removes all completed tasks and reloads. If the reload
// fails the completed tasks are still dropped from the cache.
func (b *Board) ClearCompleted(ctx context.Context) (int, error) {
	n, err := b.svc.DeleteCompleted(ctx)
	if err != nil {
		return 0, err
	}
	if err := b.reload(ctx); err != nil {
		b.tasks = slices.DeleteFunc(b.tasks, func(t service.Task) bool { return t.Completed })
		return n, err
	}
	return n, nil
}

// AddSubtask adds a subtask and reloads.
func (b *Board) AddSubtask(ctx context.Context, taskID int, title string) (service.Subtask, error) {
	sub, err := b.svc.AddSubtask(ctx, taskID, title)
	if err != nil {
		return service.Subtask{}, err
	}
	return sub, b.reload(ctx)
}

// SetSubtaskCompleted toggles a subtask and reloads.
func (b *Board) SetSubtaskCompleted(ctx context.Context, taskID, subtaskID int, completed bool) error {
	if _, err := b.svc.SetSubtaskCompleted(ctx, taskID, subtaskID, completed); err != nil {
		return err
	}
	return b.reload(ctx)
}

// DeleteSubtask removes a subtask and reloads.
func (b *Board) DeleteSubtask(ctx context.Context, taskID, subtaskID int) error {
	if err := b.svc.DeleteSubtask(ctx, taskID, subtaskID); err != nil {
		return err
	}
	return b.reload(ctx)
}

// SaveOrder persists ids as the new full order in one batch and reloads.
// ids must name every cached task exactly once. If only the reload fails,
// the saved order is applied to the cache.
func (b *Board) SaveOrder(ctx context.Context, ids []int) error {
	if len(ids) != len(b.tasks) {
		return fmt.Errorf("order has %d tasks, board has %d", len(ids), len(b.tasks))
	}
	for _, id := range ids {
		if _, ok := b.Find(id); !ok {
			return fmt.Errorf("task %d is not on the board", id)
		}
	}
	positions := Positions(ids)
	if len(positions) != len(ids) {
		return fmt.Errorf("order contains duplicate tasks")
	}
	if err := b.svc.UpdatePositions(ctx, positions); err != nil {
		return err
	}
	if err := b.reload(ctx); err != nil {
		for i := range b.tasks {
			b.tasks[i].Position = positions[b.tasks[i].ID]
		}
		b.tasks = SortTasks(b.tasks, SortPosition)
		return err
	}
	return nil
}

// Move drops the dragged task onto the target task and persists the result.
// It is a no-op when both ids are the same.
func (b *Board) Move(ctx context.Context, dragged, target int) error {
	if dragged == target {
		return nil
	}
	for _, id := range []int{dragged, target} {
		if _, ok := b.Find(id); !ok {
			return fmt.Errorf("task %d: %w", id, service.ErrNotFound)
		}
	}
	return b.SaveOrder(ctx, Drop(IDs(b.tasks), dragged, target))
}
