package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	filenameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)

	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	completedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 2)

	statusStyles = map[statusLevel]lipgloss.Style{
		levelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		levelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		levelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		levelError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)
