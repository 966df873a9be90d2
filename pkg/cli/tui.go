package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Accent color
	Warn    lipgloss.Color
	Fail    lipgloss.Color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Warn:    lipgloss.Color("#ffb86c"),
	Fail:    lipgloss.Color("#ff5555"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Status is the severity of a status line.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

// Styles holds all styles derived from a theme.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	OK    lipgloss.Style
	Warn  lipgloss.Style
	Fail  lipgloss.Style
	Help  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label: lipgloss.NewStyle().Bold(true),
		OK:    lipgloss.NewStyle().Foreground(t.Primary),
		Warn:  lipgloss.NewStyle().Foreground(t.Warn),
		Fail:  lipgloss.NewStyle().Foreground(t.Fail),
		Help:  lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Line is one row of a status list.
type Line struct {
	Status Status
	Label  string
	Detail string
}

// Render renders a status line: a mark, the label padded to width and a
// dimmed detail.
func (s Styles) Render(l Line, width int) string {
	var mark string
	switch l.Status {
	case StatusWarn:
		mark = s.Warn.Render("!")
	case StatusFail:
		mark = s.Fail.Render("✗")
	default:
		mark = s.OK.Render("✓")
	}
	label := s.Label.Render(l.Label)
	pad := max(0, width-lipgloss.Width(label))
	line := mark + " " + label
	if l.Detail != "" {
		line += strings.Repeat(" ", pad) + "  " + s.Help.Render(l.Detail)
	}
	return line
}

// PrintStatus writes a titled list of status lines to w.
func PrintStatus(w io.Writer, s Styles, title string, lines []Line) error {
	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l.Label))
	}
	if _, err := fmt.Fprintln(w, s.Title.Render(title)); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, "  "+s.Render(l, width)); err != nil {
			return err
		}
	}
	return nil
}
