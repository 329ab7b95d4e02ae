package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the tab bar and status line. Habit-specific colours
// live with the components that draw them.
var (
	accent = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	muted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
	warn   = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFD54F"}
	alarm  = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
)

var (
	tabStyle         = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle   = tabStyle.Foreground(accent).Bold(true).Underline(true)
	inactiveTabStyle = tabStyle.Foreground(muted)

	dangerStyle   = lipgloss.NewStyle().Foreground(alarm).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(warn)
	progressStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
