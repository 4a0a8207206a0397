package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MartyrMind/email-cli-app/internal/task"
)

// Per-status line styles for interactive output.
var (
	styleWaiting = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleSending = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleHeader  = lipgloss.NewStyle().Bold(true)
)

// statusLine renders one "[status] recipient" line.
func statusLine(status task.Status, recipient string) string {
	var style lipgloss.Style
	switch status {
	case task.StatusSending:
		style = styleSending
	case task.StatusSuccess:
		style = styleSuccess
	case task.StatusError:
		style = styleError
	default:
		style = styleWaiting
	}
	return style.Render("["+string(status)+"]") + " " + recipient
}
