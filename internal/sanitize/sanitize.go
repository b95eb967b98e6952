// Package sanitize coerces raw spreadsheet cells into decimals or the missing marker.
package sanitize

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/paytrend/internal/model"
)

// MisdecodedApostrophe is a right single quote (U+2019) encoded as UTF-8 and
// read back as Windows-1252. It shows up inside large numbers in some sheets.
const MisdecodedApostrophe = "â€™"

// maxExponent bounds the decimal exponent of parsed text. Formatting a
// decimal rescales it by 10^exp, so "0e2000000000" would never finish.
const maxExponent = 64

// Cleaner sanitizes cells. Strip lists substrings removed before parsing.
type Cleaner struct {
	Strip []string
}

// Presets. Crore is used for monetary columns, Count for every other numeric column.
var (
	Crore = Cleaner{Strip: []string{","}}
	Count = Cleaner{Strip: []string{",", MisdecodedApostrophe}}
)

// Clean returns a finite decimal or model.Missing. It never fails.
func (c Cleaner) Clean(cell model.RawCell) model.Value {
	switch cell.Kind {
	case model.CellNumber:
		if math.IsNaN(cell.Num) || math.IsInf(cell.Num, 0) {
			return model.Missing
		}
		return model.Some(decimal.NewFromFloat(cell.Num))
	case model.CellText:
		return c.CleanString(cell.Text)
	}
	return model.Missing
}

// CleanString applies the strip rules and dot repair to s and parses the result.
func (c Cleaner) CleanString(s string) model.Value {
	for _, pat := range c.Strip {
		if pat != "" {
			s = strings.ReplaceAll(s, pat, "")
		}
	}
	s = repairDots(strings.TrimSpace(s))
	if s == "" {
		return model.Missing
	}

	// decimal accepts exponents but not NaN/Inf spellings; reject those
	// through strconv first so "Infinity" can never reach the output.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return model.Missing
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return model.Missing
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return model.Missing
	}
	return model.Some(d)
}

// repairDots treats every dot but the last as a grouping separator:
// "1.234.567.89" becomes "1234567.89".
func repairDots(s string) string {
	if strings.Count(s, ".") <= 1 {
		return s
	}
	parts := strings.Split(s, ".")
	last := len(parts) - 1
	return strings.Join(parts[:last], "") + "." + parts[last]
}
