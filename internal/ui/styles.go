package ui

import "github.com/charmbracelet/lipgloss"

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Entry         lipgloss.Style
	Detail        lipgloss.Style
	Status        lipgloss.Style
	StatusLoading lipgloss.Style
	StatusDone    lipgloss.Style
	StatusError   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Entry:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Detail:        lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}
