package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	listedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	privateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	archivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Header renders a bold table header cell.
func Header(text string) string {
	return headerStyle.Render(text)
}

// Visibility renders a project visibility value with its status color.
func Visibility(v string) string {
	switch v {
	case "LISTED", "UNLISTED":
		return listedStyle.Render(v)
	case "PRIVATE":
		return privateStyle.Render(v)
	case "ARCHIVED":
		return archivedStyle.Render(v)
	default:
		return v
	}
}
