// Package ui renders pushed pipeline state as interactive terminal views.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/swarmscope/swarmscope/internal/event"
)

// Component color scheme - each surface has a distinct, consistent color.
var (
	// Structural / metadata
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray - timestamps, metadata

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray - labels

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")) // White - values

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1) // Header bar

	// Levels
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // Red

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // Yellow

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")) // White

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray

	// Agents - Magenta
	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13"))

	// Consensus decisions - Cyan
	consensusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	// Outcomes
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // Yellow

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// levelStyle returns the style for a record level.
func levelStyle(lvl event.Level) lipgloss.Style {
	switch lvl {
	case event.LevelError:
		return errorStyle
	case event.LevelWarn:
		return warnStyle
	case event.LevelDebug, event.LevelTrace:
		return debugStyle
	default:
		return infoStyle
	}
}

// decisionStyle returns the style for a vote decision.
func decisionStyle(decision string) lipgloss.Style {
	switch decision {
	case event.DecisionApproved:
		return successStyle
	case event.DecisionRejected:
		return errorStyle
	default:
		return pendingStyle
	}
}

// statusStyle returns the style for a consensus status.
func statusStyle(status event.Status) lipgloss.Style {
	switch status {
	case event.StatusApproved, event.StatusCompleted:
		return successStyle
	case event.StatusRejected:
		return errorStyle
	default:
		return pendingStyle
	}
}
