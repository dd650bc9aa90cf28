package console

import "github.com/charmbracelet/lipgloss"

// theme groups the reusable styles for console output regions.
type theme struct {
	header     lipgloss.Style
	userTitle  lipgloss.Style
	botTitle   lipgloss.Style
	suggestion lipgloss.Style
	errLine    lipgloss.Style
	status     lipgloss.Style
	input      lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		header: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		userTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		botTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("44")),
		suggestion: lipgloss.NewStyle().
			Foreground(lipgloss.Color("109")).
			Italic(true),
		errLine: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		input: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
	}
}
