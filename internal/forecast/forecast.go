// Package forecast fits a linear trend with additive month-of-year seasonality
// to a monthly series and projects it forward.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/paytrend/internal/model"
)

// ErrTooFewPoints is returned when a series cannot support a trend.
var ErrTooFewPoints = errors.New("at least 2 points in distinct months are required")

// Point is one month. Lower and Upper bound the prediction interval on
// projected points and equal Value on observed ones.
type Point struct {
	Period model.Period
	Value  float64
	Lower  float64
	Upper  float64
}

// intervalZ is the normal quantile for a central 80% prediction interval.
const intervalZ = 1.2816

// Model is a fitted trend: Value(t) = Intercept + Slope*t + Seasonal[month],
// with t counted in months from Origin.
type Model struct {
	Origin    model.Period
	Intercept float64
	Slope     float64
	Seasonal  [12]float64 // indexed by month-1; sums to zero over observed months
	R2        float64
	N         int
	StdErr    float64 // residual standard error; zero for a perfect fit

	meanX, sxx float64
}

// Fit estimates the model by least squares. Seasonal offsets are the mean
// residual per calendar month, centred so they do not shift the trend.
func Fit(points []Point) (*Model, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("fitting trend: %w (got %d)", ErrTooFewPoints, len(points))
	}

	origin := points[0].Period
	for _, p := range points[1:] {
		if p.Period.Before(origin) {
			origin = p.Period
		}
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2 float64
	for _, p := range points {
		x := float64(p.Period.MonthsSince(origin))
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("fitting trend: %w", ErrTooFewPoints)
	}
	m := &Model{Origin: origin, N: len(points)}
	m.Slope = (n*sumXY - sumX*sumY) / denominator
	m.Intercept = (sumY - m.Slope*sumX) / n

	var resid [12]float64
	var count [12]int
	for _, p := range points {
		i := int(p.Period.Month) - 1
		resid[i] += p.Value - m.trend(p.Period)
		count[i]++
	}
	var offsetSum float64
	var observed int
	for i := range resid {
		if count[i] == 0 {
			continue
		}
		m.Seasonal[i] = resid[i] / float64(count[i])
		offsetSum += m.Seasonal[i]
		observed++
	}
	shift := offsetSum / float64(observed)
	for i := range m.Seasonal {
		if count[i] > 0 {
			m.Seasonal[i] -= shift
		}
	}
	m.Intercept += shift

	m.R2 = m.rSquared(points, sumY/n)
	m.meanX = sumX / n
	m.sxx = sumX2 - sumX*sumX/n
	m.StdErr = m.residualStdErr(points)
	return m, nil
}

func (m *Model) trend(p model.Period) float64 {
	return m.Intercept + m.Slope*float64(p.MonthsSince(m.Origin))
}

// Predict returns the modelled value for p.
func (m *Model) Predict(p model.Period) float64 {
	return m.trend(p) + m.Seasonal[int(p.Month)-1]
}

// Forecast projects months periods following after, each with an 80%
// prediction interval that widens with distance from the fitted months.
func (m *Model) Forecast(after model.Period, months int) []Point {
	out := make([]Point, 0, months)
	for i := 1; i <= months; i++ {
		p := after.AddMonths(i)
		v := m.Predict(p)
		half := intervalZ * m.spread(p)
		out = append(out, Point{Period: p, Value: v, Lower: v - half, Upper: v + half})
	}
	return out
}

// spread is the standard error of a single new observation at p.
func (m *Model) spread(p model.Period) float64 {
	if m.StdErr == 0 || m.N == 0 || m.sxx == 0 {
		return 0
	}
	dx := float64(p.MonthsSince(m.Origin)) - m.meanX
	return m.StdErr * math.Sqrt(1+1/float64(m.N)+dx*dx/m.sxx)
}

func (m *Model) residualStdErr(points []Point) float64 {
	dof := len(points) - 2
	if dof < 1 {
		return 0
	}
	var ssRes float64
	for _, p := range points {
		d := p.Value - m.Predict(p.Period)
		ssRes += d * d
	}
	return math.Sqrt(ssRes / float64(dof))
}

func (m *Model) rSquared(points []Point, meanY float64) float64 {
	var ssRes, ssTot float64
	for _, p := range points {
		d := p.Value - m.Predict(p.Period)
		ssRes += d * d
		t := p.Value - meanY
		ssTot += t * t
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}

// Month returns the seasonal offset for a calendar month.
func (m *Model) Month(month time.Month) float64 {
	return m.Seasonal[int(month)-1]
}

// FromSeries converts consumer series points to forecast input, skipping
// months that were not reported.
func FromSeries(series []model.SeriesPoint) []Point {
	out := make([]Point, 0, len(series))
	for _, sp := range series {
		if sp.Reported {
			out = append(out, Point{Period: sp.Period, Value: sp.Value, Lower: sp.Value, Upper: sp.Value})
		}
	}
	return out
}
