package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("39")  // bright blue
	colorActive  = lipgloss.Color("82")  // green
	colorError   = lipgloss.Color("196") // red
	colorSubtle  = lipgloss.Color("241") // medium gray
	colorText    = lipgloss.Color("252") // light gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	textStyle = lipgloss.NewStyle().
			Foreground(colorText)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorActive)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtle).
			MarginTop(1)
)
