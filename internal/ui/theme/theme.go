// Package theme styles the CLI reports.
package theme

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/diffeval/internal/session"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Key = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(18)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Neutral = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Card frames a finished report.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Field renders a "key value" report line.
func Field(key, value string) string {
	return Key.Render(key) + value
}

// Separator is a horizontal rule of width cells.
func Separator(width int) string {
	return Rule.Render(strings.Repeat("─", width))
}

// Direction colors an adjustment: easier in green, harder in orange.
func Direction(d session.Direction) string {
	switch d {
	case session.Decrease:
		return Good.Render(string(d))
	case session.Increase:
		return lipgloss.NewStyle().Foreground(Accent).Bold(true).Render(string(d))
	default:
		return Neutral.Render(string(d))
	}
}

// Label colors a difficulty evaluation the same way as its direction.
func Label(l session.Label) string {
	switch l {
	case session.LabelEasier:
		return Good.Render(string(l))
	case session.LabelHarder:
		return lipgloss.NewStyle().Foreground(Accent).Bold(true).Render(string(l))
	default:
		return Neutral.Render(string(l))
	}
}
