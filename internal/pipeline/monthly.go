package pipeline

import (
	"sort"

	"github.com/theirongolddev/paytrend/internal/model"
)

// Combined names the series that sums every platform.
const Combined model.Platform = "Combined"

// AggregateOptions controls how consumers treat unreported months.
type AggregateOptions struct {
	// MissingAsZero fills unreported months with zero before growth and
	// extremes are computed. When false, only reported months are used.
	MissingAsZero bool
}

// AggregateMonthly sums transaction_amount_inr by (period, platform).
// Every period present in records appears once, in ascending order.
func AggregateMonthly(records []model.Record) []model.MonthlyTotals {
	byPeriod := make(map[model.Period]*model.MonthlyTotals)

	for _, r := range records {
		if r.Period.IsZero() || !r.Platform.Valid() {
			continue
		}
		mt, ok := byPeriod[r.Period]
		if !ok {
			mt = &model.MonthlyTotals{
				Period:   r.Period,
				Amount:   make(map[model.Platform]float64),
				Reported: make(map[model.Platform]bool),
			}
			byPeriod[r.Period] = mt
		}
		if v, ok := r.AmountINR.Float(); ok {
			mt.Amount[r.Platform] += v
			mt.Reported[r.Platform] = true
			mt.Combined += v
		}
	}

	months := make([]model.MonthlyTotals, 0, len(byPeriod))
	for _, mt := range byPeriod {
		months = append(months, *mt)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Period.Before(months[j].Period)
	})
	return months
}

// Series extracts one platform's monthly series, or the combined series when
// p is Combined. A combined month counts as reported if any platform reported.
func Series(months []model.MonthlyTotals, p model.Platform) []model.SeriesPoint {
	out := make([]model.SeriesPoint, len(months))
	for i, mt := range months {
		pt := model.SeriesPoint{Period: mt.Period}
		if p == Combined {
			pt.Value = mt.Combined
			pt.Reported = len(mt.Reported) > 0
		} else {
			pt.Value = mt.Amount[p]
			pt.Reported = mt.Reported[p]
		}
		out[i] = pt
	}
	return out
}

// Growth returns the percentage change from the first to the last point of
// series. ok is false when there is no usable start value.
func Growth(series []model.SeriesPoint, opts AggregateOptions) (pct float64, ok bool) {
	pts := usable(series, opts)
	if len(pts) < 2 {
		return 0, false
	}
	first, last := pts[0].Value, pts[len(pts)-1].Value
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

// Summarize computes headline numbers per platform and for the combined series.
func Summarize(records []model.Record, opts AggregateOptions) []model.PlatformSummary {
	months := AggregateMonthly(records)

	latestVolume := make(map[model.Platform]float64)
	latestVolumeAt := make(map[model.Platform]model.Period)
	for _, r := range records {
		v, ok := r.VolumeMn.Float()
		if !ok || r.Period.IsZero() || r.Period.Before(latestVolumeAt[r.Platform]) {
			continue
		}
		latestVolume[r.Platform] = v
		latestVolumeAt[r.Platform] = r.Period
	}
	for _, p := range model.Platforms {
		latestVolume[Combined] += latestVolume[p]
	}

	platforms := append(append([]model.Platform{}, model.Platforms...), Combined)
	out := make([]model.PlatformSummary, 0, len(platforms))
	for _, p := range platforms {
		series := Series(months, p)
		reported := 0
		for _, pt := range series {
			if pt.Reported {
				reported++
			}
		}
		if reported == 0 {
			continue
		}
		pts := usable(series, opts)
		s := model.PlatformSummary{
			Platform:       p,
			First:          pts[0].Period,
			Last:           pts[len(pts)-1].Period,
			MonthsReported: reported,
			MinINR:         pts[0].Value,
			MinPeriod:      pts[0].Period,
			LatestVolumeMn: latestVolume[p],
		}
		for _, pt := range pts {
			s.TotalINR += pt.Value
			if pt.Value > s.PeakINR || s.PeakPeriod.IsZero() {
				s.PeakINR = pt.Value
				s.PeakPeriod = pt.Period
			}
			if pt.Value < s.MinINR {
				s.MinINR = pt.Value
				s.MinPeriod = pt.Period
			}
		}
		s.GrowthPercent, s.GrowthDefined = Growth(pts, opts)
		out = append(out, s)
	}
	return out
}

// Years lists the calendar years present in records, ascending.
func Years(records []model.Record) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range records {
		if r.Period.IsZero() || seen[r.Period.Year] {
			continue
		}
		seen[r.Period.Year] = true
		years = append(years, r.Period.Year)
	}
	sort.Ints(years)
	return years
}

// FilterYear keeps the records of one calendar year. Summarize over the
// result gives that year's peak, lowest month and growth.
func FilterYear(records []model.Record, year int) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.Period.Year == year {
			out = append(out, r)
		}
	}
	return out
}

func usable(series []model.SeriesPoint, opts AggregateOptions) []model.SeriesPoint {
	if opts.MissingAsZero {
		return series
	}
	out := make([]model.SeriesPoint, 0, len(series))
	for _, pt := range series {
		if pt.Reported {
			out = append(out, pt)
		}
	}
	return out
}
