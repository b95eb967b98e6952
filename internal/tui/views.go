package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/paytrend/internal/cli"
	"github.com/theirongolddev/paytrend/internal/forecast"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/pipeline"
	"github.com/theirongolddev/paytrend/internal/tui/components"
	"github.com/theirongolddev/paytrend/internal/tui/theme"
)

// seriesView is everything one tab shows, computed once per load.
type seriesView struct {
	platform   model.Platform
	series     []model.SeriesPoint
	summary    model.PlatformSummary
	hasData    bool
	fit        *forecast.Model
	fitErr     error
	projection []forecast.Point
}

func buildViews(records []model.Record, opts pipeline.AggregateOptions, horizon int) []seriesView {
	months := pipeline.AggregateMonthly(records)

	summaries := make(map[model.Platform]model.PlatformSummary)
	for _, s := range pipeline.Summarize(records, opts) {
		summaries[s.Platform] = s
	}

	views := make([]seriesView, len(components.Tabs))
	for i, tab := range components.Tabs {
		v := seriesView{platform: tab.Platform, series: pipeline.Series(months, tab.Platform)}
		v.summary, v.hasData = summaries[tab.Platform]
		if v.hasData {
			v.fit, v.fitErr = forecast.Fit(forecast.FromSeries(v.series))
			if v.fitErr == nil && horizon > 0 {
				v.projection = v.fit.Forecast(v.summary.Last, horizon)
			}
		}
		views[i] = v
	}
	return views
}

func (v seriesView) metrics(color lipgloss.Color) []components.Metric {
	t := theme.Active
	if !v.hasData {
		return []components.Metric{{Label: "No data", Value: "—", Delta: "nothing reported"}}
	}
	s := v.summary

	growthColor := t.Green
	if s.GrowthDefined && s.GrowthPercent < 0 {
		growthColor = t.Red
	}
	if !s.GrowthDefined {
		growthColor = t.TextMuted
	}

	latest := v.latest()
	return []components.Metric{
		{Label: "Total", Value: cli.FormatINR(s.TotalINR), Delta: fmt.Sprintf("%s to %s", s.First, s.Last), Color: color},
		{Label: "Latest month", Value: cli.FormatINR(latest.Value), Delta: latest.Period.String()},
		{Label: "Peak", Value: cli.FormatINR(s.PeakINR), Delta: s.PeakPeriod.String()},
		{Label: "Growth", Value: cli.FormatGrowth(s.GrowthPercent, s.GrowthDefined), Delta: "first to last month", Color: growthColor},
		{Label: "Volume", Value: cli.FormatVolume(s.LatestVolumeMn), Delta: "latest month"},
	}
}

func (v seriesView) latest() model.SeriesPoint {
	for i := len(v.series) - 1; i >= 0; i-- {
		if v.series[i].Reported {
			return v.series[i]
		}
	}
	return model.SeriesPoint{}
}

func (v seriesView) sparkline(width int, color lipgloss.Color) string {
	if len(v.series) == 0 {
		return "no months"
	}
	values := make([]float64, len(v.series))
	for i, pt := range v.series {
		values[i] = pt.Value
	}
	start := v.series[0].Period
	if len(values) > width {
		start = v.series[len(values)-width].Period
	}
	muted := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Background(theme.Active.Surface)
	return components.Sparkline(values, width, color) + "\n" +
		muted.Render(fmt.Sprintf("%s … %s", start, v.series[len(v.series)-1].Period))
}

func (v seriesView) forecastTitle() string {
	if len(v.projection) == 0 {
		return "Forecast"
	}
	return fmt.Sprintf("Forecast to %s", v.projection[len(v.projection)-1].Period)
}

func (v seriesView) forecastBody(width int, color lipgloss.Color) string {
	muted := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Background(theme.Active.Surface)
	switch {
	case !v.hasData:
		return muted.Render("no data")
	case v.fitErr != nil:
		return muted.Render("not enough months for a trend")
	case len(v.projection) == 0:
		return muted.Render("forecast disabled")
	}

	values := make([]float64, len(v.projection))
	for i, p := range v.projection {
		values[i] = p.Value
	}
	end := v.projection[len(v.projection)-1]
	return components.Sparkline(sample(values, width), width, color) + "\n" +
		muted.Render(fmt.Sprintf("%s by %s · R² %.2f · %s/month trend",
			cli.FormatINR(end.Value), end.Period, v.fit.R2, shortINR(v.fit.Slope))) + "\n" +
		muted.Render(fmt.Sprintf("80%% band %s – %s", shortINR(end.Lower), shortINR(end.Upper)))
}

func (v seriesView) yearlyBars(width int, color lipgloss.Color) string {
	labels, values := yearlyTotals(v.series)
	if len(labels) == 0 {
		return "no months"
	}
	return components.HBars(labels, values, width, color, shortINR)
}

// rows lists the series newest first.
func (v seriesView) rows() []table.Row {
	rows := make([]table.Row, 0, len(v.series))
	for i := len(v.series) - 1; i >= 0; i-- {
		pt := v.series[i]
		status := "reported"
		amount := shortINR(pt.Value)
		if !pt.Reported {
			status = "not reported"
			amount = "—"
		}
		mom := ""
		if i > 0 && v.series[i-1].Reported && pt.Reported && v.series[i-1].Value != 0 {
			prev := v.series[i-1].Value
			mom = cli.FormatGrowth((pt.Value-prev)/prev*100, true)
		}
		rows = append(rows, table.Row{pt.Period.String(), amount, mom, status})
	}
	return rows
}

// yearlyTotals sums reported months per calendar year.
func yearlyTotals(series []model.SeriesPoint) ([]string, []float64) {
	var labels []string
	var values []float64
	lastYear := 0
	for _, pt := range series {
		if !pt.Reported {
			continue
		}
		if pt.Period.Year != lastYear {
			labels = append(labels, strconv.Itoa(pt.Period.Year))
			values = append(values, 0)
			lastYear = pt.Period.Year
		}
		values[len(values)-1] += pt.Value
	}
	return labels, values
}

// sample picks n evenly spaced values, always keeping the last.
func sample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	if n == 1 {
		return values[len(values)-1:]
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := range out {
		out[i] = values[int(float64(i)*step+0.5)]
	}
	return out
}
