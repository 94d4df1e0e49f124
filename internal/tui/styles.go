package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ------- Lip Gloss styles shared by the task list and the posts browser -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	postStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedPostStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("12")).
				PaddingLeft(1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// buttonVariant mirrors the button kinds of the web page.
type buttonVariant int

const (
	buttonSecondary buttonVariant = iota
	buttonPrimary
)

var (
	buttonBase = lipgloss.NewStyle().Padding(0, 1)

	primaryButton   = buttonBase.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27")).Bold(true)
	secondaryButton = buttonBase.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238"))
	disabledButton  = buttonBase.Foreground(lipgloss.Color("243")).Faint(true)
)

// button renders a label as a button of the given variant.
func button(label string, v buttonVariant, disabled bool) string {
	switch {
	case disabled:
		return disabledButton.Render(label)
	case v == buttonPrimary:
		return primaryButton.Render(label)
	default:
		return secondaryButton.Render(label)
	}
}

// panelString frames inner in the rounded card border.
func panelString(inner string) string {
	return cardStyle.Render(inner)
}
