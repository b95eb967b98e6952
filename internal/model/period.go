package model

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar month. The zero value means the period is missing.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf truncates t to its month.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// IsZero reports whether the period is missing.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Time returns the first instant of the month in UTC.
func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Compare returns -1, 0 or +1.
func (p Period) Compare(q Period) int {
	switch {
	case p.Before(q):
		return -1
	case q.Before(p):
		return 1
	}
	return 0
}

// AddMonths shifts p by n months.
func (p Period) AddMonths(n int) Period {
	return PeriodOf(p.Time().AddDate(0, n, 0))
}

// MonthsSince returns the number of months from q to p.
func (p Period) MonthsSince(q Period) int {
	return (p.Year-q.Year)*12 + int(p.Month) - int(q.Month)
}

// String renders the period as YYYY-MM, or "" when missing.
func (p Period) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ParsePeriod parses a YYYY-MM period key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("parsing period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// MustPeriod is ParsePeriod for constants; it panics on malformed input.
func MustPeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}
