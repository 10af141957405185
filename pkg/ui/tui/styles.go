package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accentCyan    = lipgloss.Color("#00D7FF")
	accentMagenta = lipgloss.Color("#FF5FD7")
	accentGreen   = lipgloss.Color("#5FFF87")
	accentOrange  = lipgloss.Color("#FFAF00")
	dimWhite      = lipgloss.Color("#B0B0B0")

	titleStyle = lipgloss.NewStyle().
			Background(accentMagenta).
			Foreground(lipgloss.Color("#1A1E37")).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			PaddingLeft(1)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	warningStyle = lipgloss.NewStyle().
			Foreground(accentOrange).
			Bold(true).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Padding(1, 0, 0, 1)
)
