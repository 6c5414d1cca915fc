package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// ProgressBar renders done out of total as a horizontal bar.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// Percent returns the completed share, clamped to [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// View renders the bar followed by a "done/total" counter.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Subtitle.Render(p.Label))
		b.WriteString("  ")
	}

	width := max(p.Width, 4)
	filled := int(float64(width) * p.Percent())
	b.WriteString(theme.ProgressFilled.Render(strings.Repeat("█", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat("░", width-filled)))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d/%d", p.Done, p.Total)))
	return b.String()
}

// Percentage formats a ratio as a whole percentage.
func Percentage(ratio float64) string {
	style := theme.Incorrect
	switch {
	case ratio >= 0.8:
		style = theme.Correct
	case ratio >= 0.5:
		style = lipgloss.NewStyle().Foreground(theme.Accent)
	}
	return style.Render(fmt.Sprintf("%d%%", int(ratio*100+0.5)))
}
