package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/paytrend/internal/cli"
	"github.com/theirongolddev/paytrend/internal/tui/theme"
)

// Sparkline renders values as a colored block sparkline, keeping only the
// last width values when there are more.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Background(theme.Active.Surface).
		Render(cli.RenderSparkline(values))
}

// HBars renders one horizontal bar per label, scaled to the largest value.
// format renders the value printed after each bar.
func HBars(labels []string, values []float64, width int, color lipgloss.Color, format func(float64) string) string {
	if len(labels) == 0 || len(labels) != len(values) {
		return ""
	}
	t := theme.Active

	labelW := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelW {
			labelW = w
		}
	}
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	barMax := width - labelW - 14
	if barMax < 4 {
		barMax = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(labelW)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(labels))
	for i, l := range labels {
		n := 0
		if peak > 0 && values[i] > 0 {
			n = int(values[i] / peak * float64(barMax))
		}
		lines[i] = labelStyle.Render(l) + space.Render(" ") +
			barStyle.Render(strings.Repeat("█", n)) + space.Render(" ") +
			valueStyle.Render(format(values[i]))
	}
	return strings.Join(lines, "\n")
}
