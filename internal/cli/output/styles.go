package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles used across commands.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Path    lipgloss.Style
	Header  lipgloss.Style
}

// NewStyles creates colored styles bound to the color profile of w.
func NewStyles(w io.Writer) *Styles {
	lr := lipgloss.NewRenderer(w)
	return &Styles{
		Error:   lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lr.NewStyle().Bold(true),
		Path:    lr.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Header:  lr.NewStyle().Bold(true).Underline(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:   plain,
		Warning: plain,
		Info:    plain,
		Success: plain,
		Muted:   plain,
		Bold:    plain,
		Path:    plain,
		Header:  plain,
	}
}
