package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskfactory/internal/task"
)

var (
	accentColor = lipgloss.Color("#FF6B35") // safety orange
	brassColor  = lipgloss.Color("#C49A6C")
	mutedColor  = lipgloss.Color("#6A6A6A")
	paperColor  = lipgloss.Color("#F5F0E6")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(paperColor)
	titleAccent   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	subtleStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	counterStyle  = lipgloss.NewStyle().Bold(true).Foreground(brassColor)
	tabStyle      = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1A1A1A")).Background(accentColor).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	doneTextStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(mutedColor)
	stampStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor).Border(lipgloss.NormalBorder(), false, true).BorderForeground(accentColor).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AF5F5F"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#059669")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
)

func priorityBadge(p task.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		style = subtleStyle
	}
	return style.Render(string(p))
}
