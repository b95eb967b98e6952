package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/paytrend/internal/cli"
	"github.com/theirongolddev/paytrend/internal/output"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Normalize the source sheets and write the consolidated table",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := runPipeline(cfg)
	if err != nil {
		return err
	}

	if err := output.Write(cfg.General.Output, result.Records, cfg.General.MissingToken); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s rows to %s\n",
			cli.FormatNumber(int64(len(result.Records))), cfg.General.Output)
	}
	return nil
}
