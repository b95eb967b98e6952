package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/paytrend/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	fmt.Printf("# Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("# Status: loaded, with command-line overrides applied")
	} else {
		fmt.Println("# Status: using defaults (no config file)")
	}
	fmt.Println()

	if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Println()
	fmt.Println("# Run `paytrend setup` to reconfigure.")
	return nil
}
