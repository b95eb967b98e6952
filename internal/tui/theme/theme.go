// Package theme defines color themes for the paytrend dashboard.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/pipeline"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	Selected     lipgloss.Color // Selected table row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused card
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	Green        lipgloss.Color // Positive growth
	Red          lipgloss.Color // Negative growth, errors
	Yellow       lipgloss.Color // Warnings

	// One color per series.
	UPI      lipgloss.Color
	IMPS     lipgloss.Color
	NETC     lipgloss.Color
	Combined lipgloss.Color
}

// Series returns the color for a platform series. Unknown names get Accent.
func (t Theme) Series(p model.Platform) lipgloss.Color {
	switch p {
	case model.UPI:
		return t.UPI
	case model.IMPS:
		return t.IMPS
	case model.NETC:
		return t.NETC
	case pipeline.Combined:
		return t.Combined
	}
	return t.Accent
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	Selected:     lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	Green:        lipgloss.Color("#879A39"),
	Red:          lipgloss.Color("#D14D41"),
	Yellow:       lipgloss.Color("#D0A215"),
	UPI:          lipgloss.Color("#FFD700"),
	IMPS:         lipgloss.Color("#9ACD32"),
	NETC:         lipgloss.Color("#32CD32"),
	Combined:     lipgloss.Color("#6B6BB7"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	Selected:     lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	Green:        lipgloss.Color("#A6E3A1"),
	Red:          lipgloss.Color("#F38BA8"),
	Yellow:       lipgloss.Color("#F9E2AF"),
	UPI:          lipgloss.Color("#F9E2AF"),
	IMPS:         lipgloss.Color("#A6E3A1"),
	NETC:         lipgloss.Color("#94E2D5"),
	Combined:     lipgloss.Color("#B4BEFE"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	Selected:     lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	Green:        lipgloss.Color("2"),
	Red:          lipgloss.Color("1"),
	Yellow:       lipgloss.Color("3"),
	UPI:          lipgloss.Color("11"),
	IMPS:         lipgloss.Color("10"),
	NETC:         lipgloss.Color("2"),
	Combined:     lipgloss.Color("12"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
