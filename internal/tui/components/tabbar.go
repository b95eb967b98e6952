package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/pipeline"
	"github.com/theirongolddev/paytrend/internal/tui/theme"
)

// Tab is one series view in the dashboard.
type Tab struct {
	Name     string
	Key      rune
	Platform model.Platform
}

// Tabs lists the dashboard views: the combined series, then each platform.
var Tabs = []Tab{
	{Name: "Combined", Key: 'c', Platform: pipeline.Combined},
	{Name: "UPI", Key: 'u', Platform: model.UPI},
	{Name: "IMPS", Key: 'i', Platform: model.IMPS},
	{Name: "FASTag", Key: 'f', Platform: model.NETC},
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active

	active := lipgloss.NewStyle().Background(t.Selected).Bold(true).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background).Padding(0, 1)
	key := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	sep := lipgloss.NewStyle().Background(t.Background).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = active.Foreground(t.Series(tab.Platform)).Render(tab.Name)
			continue
		}
		parts[i] = inactive.Render(tab.Name) + key.Render("["+string(tab.Key)+"]")
	}
	bar := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Background).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
