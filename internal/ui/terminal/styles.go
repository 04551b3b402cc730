package terminal

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	paceStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(1, 0)
	timerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	splitStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("243"))
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	trackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	frameStyle    = lipgloss.NewStyle().Padding(1, 2)
)
