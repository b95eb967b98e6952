package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/paytrend/internal/cli"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/pipeline"
)

var flagYear int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals, peaks and growth per platform",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().IntVarP(&flagYear, "year", "y", 0, "Limit the summary to one calendar year")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("\n  No records on or after", cfg.General.Floor)
		return nil
	}

	title := "DIGITAL PAYMENTS  Transaction amount (INR)"
	if flagYear != 0 {
		records, err = yearRecords(records, flagYear)
		if err != nil {
			return err
		}
		title = fmt.Sprintf("DIGITAL PAYMENTS  Transaction amount (INR) in %d", flagYear)
	}

	sums := pipeline.Summarize(records, aggregateOptions(cfg))
	months := pipeline.AggregateMonthly(records)

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderTable(summaryTable(sums)))
	fmt.Println()

	for _, s := range sums {
		values := make([]float64, 0, len(months))
		for _, pt := range pipeline.Series(months, s.Platform) {
			values = append(values, pt.Value)
		}
		fmt.Printf("  %-9s %s\n", label(s.Platform), cli.RenderSparkline(values))
	}
	fmt.Println()
	if cfg.General.MissingAsZero {
		fmt.Println(cli.RenderMuted("  Unreported months count as zero (--missing-as-zero=false to skip them)."))
		fmt.Println()
	}
	return nil
}

// yearRecords narrows records to one calendar year.
func yearRecords(records []model.Record, year int) ([]model.Record, error) {
	years := pipeline.Years(records)
	for _, y := range years {
		if y == year {
			return pipeline.FilterYear(records, year), nil
		}
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no records for %d", year)
	}
	return nil, fmt.Errorf("no records for %d (data covers %d to %d)", year, years[0], years[len(years)-1])
}

func summaryTable(sums []model.PlatformSummary) cli.Table {
	rows := make([][]string, 0, len(sums)+1)
	for _, s := range sums {
		if s.Platform == pipeline.Combined {
			rows = append(rows, []string{"---"})
		}
		rows = append(rows, []string{
			label(s.Platform),
			fmt.Sprintf("%s – %s", s.First, s.Last),
			cli.FormatNumber(int64(s.MonthsReported)),
			cli.FormatINR(s.TotalINR),
			fmt.Sprintf("%s (%s)", cli.FormatINR(s.PeakINR), s.PeakPeriod),
			fmt.Sprintf("%s (%s)", cli.FormatINR(s.MinINR), s.MinPeriod),
			cli.FormatGrowth(s.GrowthPercent, s.GrowthDefined),
			cli.FormatVolume(s.LatestVolumeMn),
		})
	}
	return cli.Table{
		Headers: []string{"Platform", "Months", "Reported", "Total", "Peak", "Lowest", "Growth", "Latest volume"},
		Rows:    rows,
	}
}

func label(p model.Platform) string {
	if p == pipeline.Combined {
		return string(p)
	}
	return p.DisplayName()
}
