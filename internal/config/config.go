// Package config loads and saves paytrend settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/normalize"
)

// Config holds all paytrend configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Sources    SourcesConfig    `toml:"sources"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds pipeline and report settings.
type GeneralConfig struct {
	Floor          string `toml:"floor"` // YYYY-MM
	Output         string `toml:"output"`
	MissingToken   string `toml:"missing_token"`
	MissingAsZero  bool   `toml:"missing_as_zero"`
	ForecastMonths int    `toml:"forecast_months"`
}

// SourcesConfig holds one entry per known platform.
type SourcesConfig struct {
	UPI  SourceConfig `toml:"upi"`
	IMPS SourceConfig `toml:"imps"`
	NETC SourceConfig `toml:"netc"`
}

// SourceConfig locates a source sheet and optionally renames its columns.
type SourceConfig struct {
	Path    string          `toml:"path"`
	Columns ColumnOverrides `toml:"columns,omitempty"`
}

// ColumnOverrides replaces individual column titles of the built-in mapping.
type ColumnOverrides struct {
	Date         string `toml:"date,omitempty"`
	Institutions string `toml:"institutions,omitempty"`
	Volume       string `toml:"volume,omitempty"`
	Amount       string `toml:"amount,omitempty"`
	Tag          string `toml:"tag,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Floor:          "2016-11",
			Output:         "final_cashless_payments_inr.xlsx",
			MissingToken:   "NaN",
			MissingAsZero:  true,
			ForecastMonths: 120,
		},
		Sources: SourcesConfig{
			UPI:  SourceConfig{Path: "upi.xlsx"},
			IMPS: SourceConfig{Path: "imps.xlsx"},
			NETC: SourceConfig{Path: "fastag.xlsx"},
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// FloorPeriod parses the configured historical floor.
func (c Config) FloorPeriod() (model.Period, error) {
	p, err := model.ParsePeriod(c.General.Floor)
	if err != nil {
		return model.Period{}, fmt.Errorf("general.floor: %w", err)
	}
	return p, nil
}

// Source returns the entry for p.
func (c Config) Source(p model.Platform) SourceConfig {
	switch p {
	case model.UPI:
		return c.Sources.UPI
	case model.IMPS:
		return c.Sources.IMPS
	default:
		return c.Sources.NETC
	}
}

// Mapping applies the overrides to the built-in mapping for p.
func (c Config) Mapping(p model.Platform) (normalize.Mapping, error) {
	m, err := normalize.DefaultMapping(p)
	if err != nil {
		return m, err
	}
	o := c.Source(p).Columns
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&m.Date, o.Date)
	override(&m.Institutions, o.Institutions)
	override(&m.Volume, o.Volume)
	override(&m.Amount, o.Amount)
	override(&m.Tag, o.Tag)
	return m, nil
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "paytrend")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "paytrend")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't exist.
// Keys absent from the file keep their default values.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.FloorPeriod(); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default location.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
