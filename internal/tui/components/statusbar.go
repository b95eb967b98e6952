package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/paytrend/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and info on the right.
func RenderStatusBar(width int, info string) string {
	t := theme.Active

	left := " [←/→]tab  [↑/↓]scroll  [r]eload  [q]uit"
	right := info
	if right != "" {
		right += " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + right)
}
