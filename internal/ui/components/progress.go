// Package components renders small report widgets.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/diffeval/internal/ui/theme"
)

// ShareBar displays a labelled horizontal bar for a fraction in [0,1].
type ShareBar struct {
	Label       string
	Share       float64
	ShowPercent bool
	Width       int
}

// NewShareBar creates a new share bar.
func NewShareBar(label string, share float64, showPercent bool, width int) ShareBar {
	return ShareBar{
		Label:       label,
		Share:       share,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the bar. Block characters keep it readable without color.
func (b ShareBar) View() string {
	var result string

	if b.Label != "" {
		result += theme.Key.Render(b.Label)
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if b.ShowPercent {
		percentWidth = 7 // "  100.0%"
	}

	barWidth := b.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth)*b.Share + 0.5)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	result += lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled))
	result += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", empty))

	if b.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %5.1f%%", b.Share*100))
	}

	return result
}
