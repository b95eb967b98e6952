package pipeline

import (
	"sort"

	"github.com/theirongolddev/paytrend/internal/model"
)

// DefaultFloor is the first month of UPI operations.
var DefaultFloor = model.Period{Year: 2016, Month: 11}

// Consolidate merges normalized tables, drops every record whose period is
// missing or earlier than floor, and orders the rest by period then platform.
// The input order never affects the output.
func Consolidate(floor model.Period, tables ...[]model.Record) []model.Record {
	total := 0
	for _, t := range tables {
		total += len(t)
	}

	out := make([]model.Record, 0, total)
	for _, t := range tables {
		for _, r := range t {
			if r.Period.IsZero() || r.Period.Before(floor) {
				continue
			}
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Period.Compare(out[j].Period); c != 0 {
			return c < 0
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

// Key identifies one monthly observation of a platform.
type Key struct {
	Period   model.Period
	Platform model.Platform
}

// DuplicateKeys returns (period, platform) pairs that occur more than once,
// in table order. Duplicates are kept in the output; this only reports them.
func DuplicateKeys(records []model.Record) []Key {
	seen := make(map[Key]int, len(records))
	var dups []Key
	for _, r := range records {
		k := Key{Period: r.Period, Platform: r.Platform}
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}
