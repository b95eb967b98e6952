package model

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2016-11")
	if err != nil {
		t.Fatalf("ParsePeriod: %v", err)
	}
	if p.Year != 2016 || p.Month != time.November {
		t.Errorf("ParsePeriod = %+v, want 2016-11", p)
	}
	if p.String() != "2016-11" {
		t.Errorf("String() = %q, want 2016-11", p.String())
	}

	if _, err := ParsePeriod("2016-13"); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestPeriodOrdering(t *testing.T) {
	a := MustPeriod("2020-12")
	b := MustPeriod("2021-01")

	if !a.Before(b) || b.Before(a) {
		t.Errorf("expected %s before %s", a, b)
	}
	if a.Compare(a) != 0 || a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Error("Compare inconsistent with Before")
	}
	if got := b.MonthsSince(a); got != 1 {
		t.Errorf("MonthsSince = %d, want 1", got)
	}
	if got := a.AddMonths(14); got != MustPeriod("2022-02") {
		t.Errorf("AddMonths(14) = %s, want 2022-02", got)
	}
}

func TestPeriodZeroIsMissing(t *testing.T) {
	var p Period
	if !p.IsZero() {
		t.Error("zero Period should be missing")
	}
	if p.String() != "" {
		t.Errorf("missing period String() = %q, want empty", p.String())
	}
}

func TestValueFormat(t *testing.T) {
	if got := Missing.Format("NaN"); got != "NaN" {
		t.Errorf("Missing.Format = %q, want NaN", got)
	}
}

func TestPlatformDisplayName(t *testing.T) {
	if NETC.DisplayName() != "FASTag" {
		t.Errorf("NETC display name = %q", NETC.DisplayName())
	}
	if !UPI.Valid() || Platform("RTGS").Valid() {
		t.Error("Valid() mismatch")
	}
}
