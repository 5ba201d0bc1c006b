package board

import (
	"fmt"
	"sort"
	"strings"

	"todo/internal/service"
)

// StatusFilter selects tasks by completion.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// SortMode selects the display order.
type SortMode string

const (
	SortPosition SortMode = "position"
	SortDeadline SortMode = "deadline"
	SortPriority SortMode = "priority"
	SortStatus   SortMode = "status"
	SortCreated  SortMode = "created"
)

// CategoryAll matches every task regardless of category.
const CategoryAll = "all"

// Query describes a filtered, sorted view of the task list.
type Query struct {
	Status   StatusFilter
	Category string // CategoryAll or a service.Category
	Search   string
	Sort     SortMode
}

// DefaultQuery shows everything in manual order.
func DefaultQuery() Query {
	return Query{Status: StatusAll, Category: CategoryAll, Sort: SortPosition}
}

// ParseStatus parses a status filter.
func ParseStatus(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case StatusAll, StatusActive, StatusCompleted:
		return f, nil
	}
	return "", fmt.Errorf("invalid status: %s (want all, active or completed)", s)
}

// ParseSort parses a sort mode.
func ParseSort(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortPosition, SortDeadline, SortPriority, SortStatus, SortCreated:
		return m, nil
	}
	return "", fmt.Errorf("invalid sort: %s (want position, deadline, priority, status or created)", s)
}

// ParseCategoryFilter parses "all" or a category name.
func ParseCategoryFilter(s string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(s), CategoryAll) {
		return CategoryAll, nil
	}
	c, err := service.ParseCategory(s)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// Apply sorts tasks, then filters by status, category and search term.
// The input slice is not modified.
func (q Query) Apply(tasks []service.Task) []service.Task {
	sorted := SortTasks(tasks, q.Sort)
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]service.Task, 0, len(sorted))
	for _, t := range sorted {
		if q.Status == StatusActive && t.Completed {
			continue
		}
		if q.Status == StatusCompleted && !t.Completed {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && string(t.Category) != q.Category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(t.Title), term) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasks returns a copy of tasks in the given order. Every mode is a
// stable sort over position order, so ties keep their manual order.
func SortTasks(tasks []service.Task, mode SortMode) []service.Task {
	out := make([]service.Task, len(tasks))
	copy(out, tasks)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	switch mode {
	case SortDeadline:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Deadline, out[j].Deadline
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortStatus:
		sort.SliceStable(out, func(i, j int) bool {
			return !out[i].Completed && out[j].Completed
		})
	case SortCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}
