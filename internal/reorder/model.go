// Package reorder implements the interactive drag-and-drop screen.
//
// A task is picked up, moved with the cursor keys and dropped; every drop
// that changes the order is saved as one batch of positions.
package reorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo/internal/board"
	"todo/internal/output"
	"todo/internal/service"
)

// savedMsg reports the result of a SaveOrder call.
type savedMsg struct {
	moved int
	err   error
}

// Model is the bubbletea model of the reorder screen.
type Model struct {
	ctx     context.Context
	board   *board.Board
	printer *output.Printer
	keys    keyMap
	help    help.Model

	tasks  []service.Task // display order
	cursor int

	picked bool
	origin []int // order before the pick, restored on cancel

	saving      bool
	saves       int
	unconfirmed bool // last save was not followed by a successful reload
	status      string
	err    error // fatal; ends the program
}

// New creates a model over the board's current task list.
func New(ctx context.Context, b *board.Board, p *output.Printer) Model {
	return Model{
		ctx:     ctx,
		board:   b,
		printer: p,
		keys:    defaultKeys(),
		help:    help.New(),
		tasks:   b.Tasks(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return m.saved(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.saving || len(m.tasks) == 0 {
			return m, nil
		}
		m.status = ""

		switch {
		case key.Matches(msg, m.keys.Up):
			return m.step(-1), nil
		case key.Matches(msg, m.keys.Down):
			return m.step(1), nil
		case key.Matches(msg, m.keys.Pick):
			if m.picked {
				return m.drop()
			}
			m.picked = true
			m.origin = board.IDs(m.tasks)
			return m, nil
		case key.Matches(msg, m.keys.Drop):
			if m.picked {
				return m.drop()
			}
		case key.Matches(msg, m.keys.Cancel):
			if m.picked {
				m.cancel()
			}
		}
	}
	return m, nil
}

// step moves the cursor, carrying the picked task along if there is one.
func (m Model) step(delta int) Model {
	if !m.picked {
		m.cursor = clamp(m.cursor+delta, 0, len(m.tasks)-1)
		return m
	}
	order, idx := board.MoveBy(board.IDs(m.tasks), m.cursor, delta)
	m.tasks = arrange(m.tasks, order)
	m.cursor = idx
	return m
}

func (m Model) drop() (tea.Model, tea.Cmd) {
	m.picked = false
	order := board.IDs(m.tasks)
	if slices.Equal(order, m.origin) {
		return m, nil
	}

	m.saving = true
	m.status = "saving..."
	moved := m.tasks[m.cursor].ID
	b, ctx := m.board, m.ctx
	return m, func() tea.Msg {
		return savedMsg{moved: moved, err: b.SaveOrder(ctx, order)}
	}
}

func (m *Model) cancel() {
	id := m.tasks[m.cursor].ID
	m.tasks = arrange(m.tasks, m.origin)
	m.cursor = indexOf(m.tasks, id)
	m.picked = false
}

func (m Model) saved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	switch {
	case errors.Is(msg.err, service.ErrUnauthorized):
		m.err = msg.err
		return m, tea.Quit
	case board.IsReloadError(msg.err):
		// The server has the new order; the board applied it locally.
		m.tasks = m.board.Tasks()
		m.saves++
		m.unconfirmed = true
		m.status = msg.err.Error()
	case msg.err != nil:
		// The server kept the old order; show that.
		m.tasks = arrange(m.tasks, m.origin)
		m.status = "error: " + msg.err.Error()
	default:
		m.tasks = m.board.Tasks()
		m.saves++
		m.unconfirmed = false
		m.status = "saved"
	}
	if i := indexOf(m.tasks, msg.moved); i >= 0 {
		m.cursor = i
	}
	m.cursor = clamp(m.cursor, 0, len(m.tasks)-1)
	return m, nil
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Saves returns how many orders were saved.
func (m Model) Saves() int { return m.saves }

// Unconfirmed reports whether the displayed order was saved but could not
// be read back from the server.
func (m Model) Unconfirmed() bool { return m.unconfirmed }

// Status returns the status line.
func (m Model) Status() string { return m.status }

// Picked reports whether a task is currently picked up.
func (m Model) Picked() bool { return m.picked }

// Order returns the displayed task ids.
func (m Model) Order() []int { return board.IDs(m.tasks) }

// Cursor returns the cursor index.
func (m Model) Cursor() int { return m.cursor }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	pickedStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Reorder tasks"))
	sb.WriteString("\n\n")

	if len(m.tasks) == 0 {
		sb.WriteString(output.EmptyMessage + "\n")
	}
	now := time.Now()
	for i, t := range m.tasks {
		line := m.printer.TaskLine(t, now)
		switch {
		case i == m.cursor && m.picked:
			sb.WriteString("* " + pickedStyle.Render(line))
		case i == m.cursor:
			sb.WriteString("> " + cursorStyle.Render(line))
		default:
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(statusStyle.Render(m.status) + "\n")
	}
	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")
	return sb.String()
}

// Run shows the reorder screen until the user quits.
// It returns the number of saved reorders.
func Run(ctx context.Context, b *board.Board, p *output.Printer, in io.Reader, out io.Writer) (int, error) {
	prog := tea.NewProgram(New(ctx, b, p),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := prog.Run()
	if err != nil {
		return 0, fmt.Errorf("reorder screen: %w", err)
	}
	m := final.(Model)
	return m.Saves(), m.Err()
}

// arrange returns tasks in the given id order.
func arrange(tasks []service.Task, order []int) []service.Task {
	byID := make(map[int]service.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	out := make([]service.Task, 0, len(order))
	for _, id := range order {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func indexOf(tasks []service.Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
