// Package cmd implements the paytrend CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/paytrend/internal/cli"
	"github.com/theirongolddev/paytrend/internal/config"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/output"
	"github.com/theirongolddev/paytrend/internal/pipeline"
)

var (
	flagConfig        string
	flagQuiet         bool
	flagFloor         string
	flagOutput        string
	flagMissingToken  string
	flagMissingAsZero bool
	flagUPI           string
	flagIMPS          string
	flagNETC          string
	flagRebuild       bool
)

var rootCmd = &cobra.Command{
	Use:   "paytrend",
	Short: "Indian digital payment statistics",
	Long: "Normalize the UPI, IMPS and NETC (FASTag) monthly statistics sheets into one\n" +
		"table, then summarize, forecast, or browse it.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Assigned here: runBuild reaches rootCmd through loadConfig.
	rootCmd.RunE = runBuild

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/paytrend/config.toml)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVar(&flagFloor, "floor", "", "Drop months before this one (YYYY-MM)")
	pf.StringVarP(&flagOutput, "output", "o", "", "Consolidated table path (.xlsx, .csv, .db)")
	pf.StringVar(&flagMissingToken, "missing-token", "", "Text written for missing values")
	pf.BoolVar(&flagMissingAsZero, "missing-as-zero", true, "Treat unreported months as zero in reports")
	pf.StringVar(&flagUPI, "upi", "", "UPI statistics sheet")
	pf.StringVar(&flagIMPS, "imps", "", "IMPS statistics sheet")
	pf.StringVar(&flagNETC, "netc", "", "NETC (FASTag) statistics sheet")
	pf.BoolVar(&flagRebuild, "rebuild", false, "Rebuild from the source sheets instead of reading the output table")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return cfg, err
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.General.Floor, flagFloor)
	override(&cfg.General.Output, flagOutput)
	override(&cfg.General.MissingToken, flagMissingToken)
	override(&cfg.Sources.UPI.Path, flagUPI)
	override(&cfg.Sources.IMPS.Path, flagIMPS)
	override(&cfg.Sources.NETC.Path, flagNETC)
	if rootCmd.PersistentFlags().Changed("missing-as-zero") {
		cfg.General.MissingAsZero = flagMissingAsZero
	}

	if _, err := cfg.FloorPeriod(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newPipeline builds a pipeline over the configured sources.
func newPipeline(cfg config.Config, progress pipeline.ProgressFunc) (*pipeline.Pipeline, error) {
	floor, err := cfg.FloorPeriod()
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{Floor: floor, Progress: progress}
	for _, platform := range []model.Platform{model.UPI, model.IMPS, model.NETC} {
		m, err := cfg.Mapping(platform)
		if err != nil {
			return nil, err
		}
		p.Sources = append(p.Sources, pipeline.Source{Path: cfg.Source(platform).Path, Mapping: m})
	}
	return p, nil
}

// runPipeline normalizes and consolidates the sources, reporting progress
// and data warnings on stderr.
func runPipeline(cfg config.Config) (*pipeline.Result, error) {
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprint(os.Stderr, cli.RenderProgress("Normalizing sources", current, total))
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	p, err := newPipeline(cfg, progressFn)
	if err != nil {
		return nil, err
	}
	result, err := p.Run()
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		for _, st := range result.Sources {
			fmt.Fprintf(os.Stderr, "  %-6s %s: %d rows, %d kept, %d before %s\n",
				st.Platform, st.Path, st.Rows, st.Kept, st.BeforeFloor, cfg.General.Floor)
			if st.MissingPeriod > 0 {
				fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf(
					"%s: %d rows with an unreadable month were dropped", st.Platform, st.MissingPeriod)))
			}
		}
		for _, k := range result.Duplicates {
			fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf(
				"duplicate rows for %s %s", k.Platform, k.Period)))
		}
	}
	return result, nil
}

// loadRecords returns the consolidated table for the report commands. It
// reads the output table when present and rebuilds from the sources otherwise.
func loadRecords(cfg config.Config) ([]model.Record, error) {
	if !flagRebuild {
		records, err := output.Read(cfg.General.Output, cfg.General.MissingToken)
		if err == nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Loaded %s rows from %s\n",
					cli.FormatNumber(int64(len(records))), cfg.General.Output)
			}
			return records, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  %s not found, building from sources\n", cfg.General.Output)
		}
	}

	result, err := runPipeline(cfg)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

func aggregateOptions(cfg config.Config) pipeline.AggregateOptions {
	return pipeline.AggregateOptions{MissingAsZero: cfg.General.MissingAsZero}
}
