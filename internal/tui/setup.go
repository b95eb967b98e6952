package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/paytrend/internal/config"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/output"
	"github.com/theirongolddev/paytrend/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	UPIPath       string
	IMPSPath      string
	NETCPath      string
	Output        string
	Floor         string
	Theme         string
	MissingAsZero bool
}

// NewSetupValues seeds the form answers from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		UPIPath:       cfg.Sources.UPI.Path,
		IMPSPath:      cfg.Sources.IMPS.Path,
		NETCPath:      cfg.Sources.NETC.Path,
		Output:        cfg.General.Output,
		Floor:         cfg.General.Floor,
		Theme:         cfg.Appearance.Theme,
		MissingAsZero: cfg.General.MissingAsZero,
	}
}

// NewSetupForm builds the setup wizard bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("UPI statistics sheet").
				Description("Path to the .xlsx or .csv export.").
				Value(&v.UPIPath).
				Validate(requirePath),
			huh.NewInput().
				Title("IMPS statistics sheet").
				Value(&v.IMPSPath).
				Validate(requirePath),
			huh.NewInput().
				Title("NETC (FASTag) statistics sheet").
				Value(&v.NETCPath).
				Validate(requirePath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output table").
				Description("Extension picks the format: .xlsx, .csv or .db").
				Value(&v.Output).
				Validate(validateOutput),
			huh.NewInput().
				Title("Earliest month kept").
				Description("YYYY-MM").
				Value(&v.Floor).
				Validate(validateFloor),
			huh.NewConfirm().
				Title("Treat unreported months as zero in reports?").
				Affirmative("Yes").
				Negative("No").
				Value(&v.MissingAsZero),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.Sources.UPI.Path = strings.TrimSpace(v.UPIPath)
	cfg.Sources.IMPS.Path = strings.TrimSpace(v.IMPSPath)
	cfg.Sources.NETC.Path = strings.TrimSpace(v.NETCPath)
	cfg.General.Output = strings.TrimSpace(v.Output)
	cfg.General.Floor = strings.TrimSpace(v.Floor)
	cfg.General.MissingAsZero = v.MissingAsZero
	cfg.Appearance.Theme = v.Theme
}

func requirePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a path is required")
	}
	return nil
}

func validateOutput(s string) error {
	if err := requirePath(s); err != nil {
		return err
	}
	_, err := output.FormatFor(strings.TrimSpace(s))
	return err
}

func validateFloor(s string) error {
	_, err := model.ParsePeriod(strings.TrimSpace(s))
	return err
}
