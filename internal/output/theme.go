package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette entries pick the light or dark variant from the renderer's
// background setting.
var (
	colorMuted   = ac("243", "245")
	colorAccent  = ac("27", "75")
	colorHigh    = ac("160", "203")
	colorMedium  = ac("136", "221")
	colorLow     = ac("28", "114")
	colorOverdue = ac("160", "203")
	colorDone    = ac("28", "114")
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

type styles struct {
	id       lipgloss.Style
	title    lipgloss.Style
	done     lipgloss.Style
	check    lipgloss.Style
	high     lipgloss.Style
	medium   lipgloss.Style
	low      lipgloss.Style
	category lipgloss.Style
	due      lipgloss.Style
	overdue  lipgloss.Style
	muted    lipgloss.Style
	label    lipgloss.Style
	barFull  lipgloss.Style
	barEmpty lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		id:       r.NewStyle().Foreground(colorMuted),
		title:    r.NewStyle().Bold(true),
		done:     r.NewStyle().Foreground(colorMuted).Strikethrough(true),
		check:    r.NewStyle().Foreground(colorDone),
		high:     r.NewStyle().Foreground(colorHigh),
		medium:   r.NewStyle().Foreground(colorMedium),
		low:      r.NewStyle().Foreground(colorLow),
		category: r.NewStyle().Foreground(colorAccent),
		due:      r.NewStyle(),
		overdue:  r.NewStyle().Foreground(colorOverdue).Bold(true),
		muted:    r.NewStyle().Foreground(colorMuted),
		label:    r.NewStyle().Foreground(colorMuted),
		barFull:  r.NewStyle().Foreground(colorDone),
		barEmpty: r.NewStyle().Foreground(colorMuted),
	}
}
