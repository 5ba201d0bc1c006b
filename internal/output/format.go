// Package output provides themed formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"todo/internal/board"
	"todo/internal/config"
	"todo/internal/service"
)

const (
	// DeadlineLayout is how deadlines are displayed, e.g. "Apr 5, 2026, 06:00 PM".
	DeadlineLayout = "Jan 2, 2006, 03:04 PM"

	// EmptyMessage is printed when a view has no tasks.
	EmptyMessage = "no tasks found"

	progressWidth = 20
)

// Printer writes tasks and statistics to w using the configured theme.
type Printer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	loc   *time.Location
	style styles
}

// NewPrinter creates a printer bound to w. With noColor set, or when w is
// not a terminal, output is plain text.
func NewPrinter(w io.Writer, theme string, noColor bool, loc *time.Location) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	r.SetHasDarkBackground(theme == config.ThemeDark)
	if loc == nil {
		loc = time.Local
	}
	return &Printer{w: w, r: r, loc: loc, style: newStyles(r)}
}

// SetColorProfile overrides the detected color profile.
func (p *Printer) SetColorProfile(profile termenv.Profile) {
	p.r.SetColorProfile(profile)
}

// Tasks prints each task followed by its subtasks, or EmptyMessage.
func (p *Printer) Tasks(tasks []service.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, EmptyMessage)
		return
	}
	for _, t := range tasks {
		p.Task(t, now)
		for _, s := range t.Subtasks {
			p.Subtask(s)
		}
	}
}

// Task prints a single task line.
func (p *Printer) Task(t service.Task, now time.Time) {
	fmt.Fprintln(p.w, p.TaskLine(t, now))
}

// TaskLine formats a task as
// "[ ] #ID  TITLE  PRIORITY  [CATEGORY]  due DEADLINE (overdue)  D/T subtasks".
// Category, deadline and subtask progress are omitted when absent.
func (p *Printer) TaskLine(t service.Task, now time.Time) string {
	parts := []string{
		p.checkbox(t.Completed) + " " + p.style.id.Render(fmt.Sprintf("#%d", t.ID)),
		p.title(t.Title, t.Completed),
		p.priority(t.Priority),
	}
	if t.Category != service.CategoryNone {
		parts = append(parts, p.style.category.Render("["+string(t.Category)+"]"))
	}
	if t.Deadline != nil {
		due := "due " + FormatDeadline(*t.Deadline, p.loc)
		if t.Overdue(now) {
			parts = append(parts, p.style.overdue.Render(due+" (overdue)"))
		} else {
			parts = append(parts, p.style.due.Render(due))
		}
	}
	if done, total := t.SubtaskProgress(); total > 0 {
		parts = append(parts, p.style.muted.Render(fmt.Sprintf("%d/%d subtasks", done, total)))
	}
	return strings.Join(parts, "  ")
}

// Subtask prints an indented subtask line: "    [ ] #ID  TITLE".
func (p *Printer) Subtask(s service.Subtask) {
	fmt.Fprintf(p.w, "    %s %s  %s\n",
		p.checkbox(s.Completed),
		p.style.id.Render(fmt.Sprintf("#%d", s.ID)),
		p.title(s.Title, s.Completed))
}

// Stats prints the statistics block.
func (p *Printer) Stats(s board.Stats) {
	rows := []struct {
		label string
		value string
	}{
		{"total", fmt.Sprint(s.Total)},
		{"active", fmt.Sprint(s.Active)},
		{"completed", fmt.Sprint(s.Completed)},
		{"progress", p.progressBar(s.Percent) + fmt.Sprintf(" %d%%", s.Percent)},
		{"this week", fmt.Sprint(s.CompletedThisWeek)},
		{"this month", fmt.Sprint(s.CompletedThisMonth)},
		{"overdue", p.overdueCount(s.Overdue)},
	}
	for _, row := range rows {
		fmt.Fprintf(p.w, "%s %s\n", p.style.label.Render(fmt.Sprintf("%-10s", row.label)), row.value)
	}
}

// FormatDeadline formats a deadline in loc.
func FormatDeadline(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DeadlineLayout)
}

func (p *Printer) checkbox(done bool) string {
	if done {
		return p.style.check.Render("[x]")
	}
	return "[ ]"
}

func (p *Printer) title(title string, done bool) string {
	title = normalizeTitle(title)
	if done {
		return p.style.done.Render(title)
	}
	return p.style.title.Render(title)
}

func (p *Printer) priority(pr service.Priority) string {
	switch pr {
	case service.PriorityHigh:
		return p.style.high.Render(string(pr))
	case service.PriorityLow:
		return p.style.low.Render(string(pr))
	default:
		return p.style.medium.Render(string(service.PriorityMedium))
	}
}

func (p *Printer) progressBar(percent int) string {
	filled := percent * progressWidth / 100
	if filled > progressWidth {
		filled = progressWidth
	}
	return "[" + p.style.barFull.Render(strings.Repeat("#", filled)) +
		p.style.barEmpty.Render(strings.Repeat("-", progressWidth-filled)) + "]"
}

func (p *Printer) overdueCount(n int) string {
	if n > 0 {
		return p.style.overdue.Render(fmt.Sprint(n))
	}
	return fmt.Sprint(n)
}

// normalizeTitle normalizes a title for display.
// Newlines become spaces and blank titles become "(untitled)".
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
