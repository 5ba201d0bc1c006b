package todoapi

import (
	"encoding/json"
	"fmt"
	"time"

	"todo/internal/service"
)

// naiveLayouts are accepted for timestamps without a zone; they are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// apiTime decodes the server's timestamps, which may lack a zone.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp: %q", s)
}

type subtaskDTO struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	TaskID    int    `json:"task_id"`
}

func (s subtaskDTO) toSubtask() service.Subtask {
	return service.Subtask{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Title:     s.Title,
		Completed: s.Completed,
	}
}

type taskDTO struct {
	ID        int          `json:"id"`
	Title     string       `json:"title"`
	Completed bool         `json:"completed"`
	Deadline  *apiTime     `json:"deadline"`
	Priority  string       `json:"priority"`
	Category  *string      `json:"category"`
	CreatedAt *apiTime     `json:"created_at"`
	Position  int          `json:"position"`
	Subtasks  []subtaskDTO `json:"subtasks"`
}

func (t taskDTO) toTask() service.Task {
	task := service.Task{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Priority:  service.Priority(t.Priority),
		Position:  t.Position,
	}
	if task.Priority == "" {
		task.Priority = service.PriorityMedium
	}
	if t.Category != nil {
		task.Category = service.Category(*t.Category)
	}
	if t.Deadline != nil && !t.Deadline.IsZero() {
		d := t.Deadline.Time
		task.Deadline = &d
	}
	if t.CreatedAt != nil {
		task.CreatedAt = t.CreatedAt.Time
	}
	for _, s := range t.Subtasks {
		sub := s.toSubtask()
		if sub.TaskID == 0 {
			sub.TaskID = t.ID
		}
		task.Subtasks = append(task.Subtasks, sub)
	}
	return task
}

// taskCreateDTO always carries category (null when unset); deadline is
// omitted when unset.
type taskCreateDTO struct {
	Title    string  `json:"title"`
	Priority string  `json:"priority"`
	Category *string `json:"category"`
	Deadline *string `json:"deadline,omitempty"`
}

func newTaskCreateDTO(t service.NewTask) taskCreateDTO {
	dto := taskCreateDTO{
		Title:    t.Title,
		Priority: string(t.Priority),
	}
	if dto.Priority == "" {
		dto.Priority = string(service.PriorityMedium)
	}
	if t.Category != service.CategoryNone {
		c := string(t.Category)
		dto.Category = &c
	}
	if t.Deadline != nil {
		d := formatTime(*t.Deadline)
		dto.Deadline = &d
	}
	return dto
}

type taskUpdateDTO struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Deadline  *string `json:"deadline,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	Category  *string `json:"category,omitempty"`
}

func newTaskUpdateDTO(u service.TaskUpdate) taskUpdateDTO {
	dto := taskUpdateDTO{
		Title:     u.Title,
		Completed: u.Completed,
	}
	if u.Deadline != nil {
		d := formatTime(*u.Deadline)
		dto.Deadline = &d
	}
	if u.Priority != nil {
		p := string(*u.Priority)
		dto.Priority = &p
	}
	if u.Category != nil && *u.Category != service.CategoryNone {
		c := string(*u.Category)
		dto.Category = &c
	}
	return dto
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
