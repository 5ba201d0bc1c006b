// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu      sync.RWMutex
	tasks   []service.Task
	nextID  int
	nextSub int
	wrote   bool

	// Now stamps CreatedAt on new tasks.
	Now func() time.Time

	// ListCalls counts ListTasks calls, i.e. cache reloads.
	ListCalls int

	// Positions records every UpdatePositions batch.
	Positions []map[int]int

	// Error injection for testing
	ListTasksErr       error
	GetTaskErr         error
	CreateTaskErr      error
	UpdateTaskErr      error
	DeleteTaskErr      error
	DeleteCompletedErr error
	UpdatePositionsErr error
	AddSubtaskErr      error
	SetSubtaskErr      error
	DeleteSubtaskErr   error

	// ReloadErr fails ListTasks once a write has succeeded.
	ReloadErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:  1,
		nextSub: 1,
		Now:     time.Now,
	}
}

// AddTask seeds a task at the end of the list and returns it.
func (f *FakeService) AddTask(title string, opts ...func(*service.Task)) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:        f.nextID,
		Title:     title,
		Priority:  service.PriorityMedium,
		Position:  len(f.tasks),
		CreatedAt: f.Now(),
	}
	f.nextID++
	for _, opt := range opts {
		opt(&t)
	}
	f.tasks = append(f.tasks, t)
	return t
}

// AddSubtaskTo seeds a subtask.
func (f *FakeService) AddSubtaskTo(taskID int, title string, completed bool) service.Subtask {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := service.Subtask{ID: f.nextSub, TaskID: taskID, Title: title, Completed: completed}
	f.nextSub++
	if i := f.index(taskID); i >= 0 {
		f.tasks[i].Subtasks = append(f.tasks[i].Subtasks, sub)
	}
	return sub
}

// Task returns the stored task with the given id.
func (f *FakeService) Task(id int) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.index(id); i >= 0 {
		return cloneTask(f.tasks[i]), true
	}
	return service.Task{}, false
}

// Completed marks a seeded task completed.
func Completed(t *service.Task) { t.Completed = true }

// WithPriority sets a seeded task's priority.
func WithPriority(p service.Priority) func(*service.Task) {
	return func(t *service.Task) { t.Priority = p }
}

// WithCategory sets a seeded task's category.
func WithCategory(c service.Category) func(*service.Task) {
	return func(t *service.Task) { t.Category = c }
}

// WithDeadline sets a seeded task's deadline.
func WithDeadline(d time.Time) func(*service.Task) {
	return func(t *service.Task) { t.Deadline = &d }
}

// WithCreatedAt sets a seeded task's creation time.
func WithCreatedAt(c time.Time) func(*service.Task) {
	return func(t *service.Task) { t.CreatedAt = c }
}

// WithPosition sets a seeded task's position.
func WithPosition(p int) func(*service.Task) {
	return func(t *service.Task) { t.Position = p }
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	wrote := f.wrote
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	if wrote && f.ReloadErr != nil {
		return nil, f.ReloadErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = cloneTask(t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	t, ok := f.Task(id)
	if !ok {
		return service.Task{}, service.ErrNotFound
	}
	return t, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	task := f.AddTask(in.Title, func(t *service.Task) {
		if in.Priority != "" {
			t.Priority = in.Priority
		}
		t.Category = in.Category
		t.Deadline = in.Deadline
	})
	f.mu.Lock()
	f.wrote = true
	f.mu.Unlock()
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, upd service.TaskUpdate) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	t := &f.tasks[i]
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.Category != nil && *upd.Category != service.CategoryNone {
		t.Category = *upd.Category
	}
	if upd.Deadline != nil {
		d := *upd.Deadline
		t.Deadline = &d
	}
	f.wrote = true
	return cloneTask(*t), nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	f.wrote = true
	return nil
}

// DeleteCompleted implements service.Service.
func (f *FakeService) DeleteCompleted(ctx context.Context) (int, error) {
	if f.DeleteCompletedErr != nil {
		return 0, f.DeleteCompletedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tasks[:0]
	n := 0
	for _, t := range f.tasks {
		if t.Completed {
			n++
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	f.wrote = true
	return n, nil
}

// UpdatePositions implements service.Service.
func (f *FakeService) UpdatePositions(ctx context.Context, positions map[int]int) error {
	if f.UpdatePositionsErr != nil {
		return f.UpdatePositionsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make(map[int]int, len(positions))
	for id, pos := range positions {
		batch[id] = pos
		if i := f.index(id); i >= 0 {
			f.tasks[i].Position = pos
		}
	}
	f.Positions = append(f.Positions, batch)
	f.wrote = true
	return nil
}

// AddSubtask implements service.Service.
func (f *FakeService) AddSubtask(ctx context.Context, taskID int, title string) (service.Subtask, error) {
	if f.AddSubtaskErr != nil {
		return service.Subtask{}, f.AddSubtaskErr
	}
	if _, ok := f.Task(taskID); !ok {
		return service.Subtask{}, service.ErrNotFound
	}
	sub := f.AddSubtaskTo(taskID, title, false)
	f.mu.Lock()
	f.wrote = true
	f.mu.Unlock()
	return sub, nil
}

// SetSubtaskCompleted implements service.Service.
func (f *FakeService) SetSubtaskCompleted(ctx context.Context, taskID, subtaskID int, completed bool) (service.Subtask, error) {
	if f.SetSubtaskErr != nil {
		return service.Subtask{}, f.SetSubtaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(taskID)
	if i < 0 {
		return service.Subtask{}, service.ErrNotFound
	}
	for j := range f.tasks[i].Subtasks {
		if f.tasks[i].Subtasks[j].ID == subtaskID {
			f.tasks[i].Subtasks[j].Completed = completed
			f.wrote = true
			return f.tasks[i].Subtasks[j], nil
		}
	}
	return service.Subtask{}, service.ErrNotFound
}

// DeleteSubtask implements service.Service.
func (f *FakeService) DeleteSubtask(ctx context.Context, taskID, subtaskID int) error {
	if f.DeleteSubtaskErr != nil {
		return f.DeleteSubtaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(taskID)
	if i < 0 {
		return service.ErrNotFound
	}
	subs := f.tasks[i].Subtasks
	for j := range subs {
		if subs[j].ID == subtaskID {
			f.tasks[i].Subtasks = append(subs[:j:j], subs[j+1:]...)
			f.wrote = true
			return nil
		}
	}
	return service.ErrNotFound
}

// index must be called with mu held.
func (f *FakeService) index(id int) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTask(t service.Task) service.Task {
	if t.Subtasks != nil {
		subs := make([]service.Subtask, len(t.Subtasks))
		copy(subs, t.Subtasks)
		t.Subtasks = subs
	}
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	return t
}
