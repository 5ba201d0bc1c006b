package board

import (
	"time"

	"todo/internal/service"
)

const (
	week  = 7 * 24 * time.Hour
	month = 30 * 24 * time.Hour
)

// Stats summarizes the task list.
type Stats struct {
	Total     int
	Active    int
	Completed int
	Percent   int // completed share, rounded half up; 0 for an empty list

	// CompletedThisWeek and CompletedThisMonth count completed tasks created
	// within the last 7 and 30 days. The server does not record completion
	// time, so creation time stands in for it.
	CompletedThisWeek  int
	CompletedThisMonth int
	Overdue            int
}

// ComputeStats computes statistics for tasks as of now.
func ComputeStats(tasks []service.Task, now time.Time) Stats {
	var s Stats
	weekAgo := now.Add(-week)
	monthAgo := now.Add(-month)

	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
			if !t.CreatedAt.IsZero() {
				if !t.CreatedAt.Before(weekAgo) {
					s.CompletedThisWeek++
				}
				if !t.CreatedAt.Before(monthAgo) {
					s.CompletedThisMonth++
				}
			}
		}
		if t.Overdue(now) {
			s.Overdue++
		}
	}
	s.Active = s.Total - s.Completed
	if s.Total > 0 {
		s.Percent = (s.Completed*200 + s.Total) / (2 * s.Total)
	}
	return s
}
