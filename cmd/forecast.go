package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/paytrend/internal/cli"
	"github.com/theirongolddev/paytrend/internal/forecast"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/pipeline"
)

var (
	flagPlatform string
	flagMonths   int
	flagEvery    int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project monthly transaction amounts forward",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&flagPlatform, "platform", "p", "combined", "Series to forecast: upi, imps, netc (or fastag), combined")
	forecastCmd.Flags().IntVarP(&flagMonths, "months", "m", 0, "Months to project (default general.forecast_months)")
	forecastCmd.Flags().IntVar(&flagEvery, "every", 12, "Print one projected month in every N")
	rootCmd.AddCommand(forecastCmd)
}

// parsePlatform resolves a series name given on the command line.
func parsePlatform(s string) (model.Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upi":
		return model.UPI, nil
	case "imps":
		return model.IMPS, nil
	case "netc", "fastag":
		return model.NETC, nil
	case "combined", "all":
		return pipeline.Combined, nil
	}
	return "", fmt.Errorf("unknown platform %q (want upi, imps, netc, combined)", s)
}

func runForecast(_ *cobra.Command, _ []string) error {
	platform, err := parsePlatform(flagPlatform)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	months := flagMonths
	if months <= 0 {
		months = cfg.General.ForecastMonths
	}
	every := flagEvery
	if every <= 0 {
		every = 1
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	series := pipeline.Series(pipeline.AggregateMonthly(records), platform)
	m, err := forecast.Fit(forecast.FromSeries(series))
	if err != nil {
		return fmt.Errorf("forecasting %s: %w", label(platform), err)
	}
	last := series[len(series)-1].Period
	projection := m.Forecast(last, months)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  %s, %d months after %s", label(platform), months, last)))
	fmt.Println()

	fmt.Print(cli.RenderTable(forecastTable(projection, every)))

	values := make([]float64, len(projection))
	for i, p := range projection {
		values[i] = p.Value
	}
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderSparkline(values))
	fmt.Println(cli.RenderMuted(fmt.Sprintf("  Trend %s/month over %d months, R² %.3f, residual SE %s",
		cli.FormatINR(m.Slope), m.N, m.R2, cli.FormatINR(m.StdErr))))
	fmt.Println(cli.RenderMuted("  Low and High bound an 80% prediction interval."))
	fmt.Println()
	return nil
}

// forecastTable keeps every nth projected month plus the last one.
func forecastTable(projection []forecast.Point, every int) cli.Table {
	rows := make([][]string, 0, len(projection)/every+1)
	for i, p := range projection {
		if (i+1)%every != 0 && i != len(projection)-1 {
			continue
		}
		rows = append(rows, []string{
			p.Period.String(),
			cli.FormatINR(p.Value),
			cli.FormatINR(p.Lower),
			cli.FormatINR(p.Upper),
		})
	}
	return cli.Table{
		Headers: []string{"Month", "Projected amount", "Low", "High"},
		Rows:    rows,
	}
}
