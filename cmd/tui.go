package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/paytrend/internal/config"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/output"
	"github.com/theirongolddev/paytrend/internal/pipeline"
	"github.com/theirongolddev/paytrend/internal/tui"
	"github.com/theirongolddev/paytrend/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(dashboardLoader, tui.Options{
		Config:    cfg,
		NeedSetup: flagConfig == "" && !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// dashboardLoader is loadRecords without stderr output, which would
// corrupt the alternate screen.
func dashboardLoader(cfg config.Config, progress pipeline.ProgressFunc) ([]model.Record, error) {
	if !flagRebuild {
		records, err := output.Read(cfg.General.Output, cfg.General.MissingToken)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return records, err
		}
	}

	p, err := newPipeline(cfg, progress)
	if err != nil {
		return nil, err
	}
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}
