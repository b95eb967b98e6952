package model

// MonthlyTotals holds the amount reported by each platform in one month.
// A platform absent from Reported had no amount for the month; its entry in
// Amount is zero.
type MonthlyTotals struct {
	Period   Period
	Amount   map[Platform]float64
	Reported map[Platform]bool
	Combined float64
}

// SeriesPoint is one month of a single platform's (or the combined) series.
type SeriesPoint struct {
	Period   Period
	Value    float64
	Reported bool
}

// PlatformSummary holds headline numbers for one platform's series.
type PlatformSummary struct {
	Platform       Platform
	First          Period
	Last           Period
	MonthsReported int
	TotalINR       float64
	PeakINR        float64
	PeakPeriod     Period
	MinINR         float64
	MinPeriod      Period
	GrowthPercent  float64
	GrowthDefined  bool // false when the starting value is zero or missing
	LatestVolumeMn float64
}
