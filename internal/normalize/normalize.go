package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/sanitize"
	"github.com/theirongolddev/paytrend/internal/source"
)

// croreINR is the number of rupees in one crore.
var croreINR = decimal.New(1, 7)

// columns holds resolved column indexes; tag is -1 when not available.
type columns struct {
	date, institutions, volume, amount, tag int
}

// Normalize converts table into canonical records tagged with m.Platform.
// It returns one record per input row. A mandatory column missing from the
// table is a configuration error reported as *MissingColumnError.
func Normalize(table model.RawTable, m Mapping) ([]model.Record, error) {
	cols, err := resolve(table, m)
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, len(table.Rows))
	for r := range table.Rows {
		cell := func(c int) model.RawCell {
			if c < 0 {
				return model.RawCell{}
			}
			return blankToMissing(table.Cell(r, c))
		}

		records[r] = model.Record{
			Period:       parsePeriod(cell(cols.date)),
			Platform:     m.Platform,
			Institutions: sanitize.Count.Clean(cell(cols.institutions)),
			VolumeMn:     sanitize.Count.Clean(cell(cols.volume)),
			AmountINR:    toRupees(sanitize.Crore.Clean(cell(cols.amount))),
			TagCount:     sanitize.Count.Clean(cell(cols.tag)),
		}
	}
	return records, nil
}

// toRupees converts a crore-denominated value to rupees. Missing stays missing.
func toRupees(crore model.Value) model.Value {
	if !crore.Valid {
		return model.Missing
	}
	return model.Some(crore.Decimal.Mul(croreINR))
}

func blankToMissing(c model.RawCell) model.RawCell {
	if c.Kind == model.CellText && strings.TrimSpace(c.Text) == "" {
		return model.RawCell{}
	}
	return c
}

func resolve(table model.RawTable, m Mapping) (columns, error) {
	index := make(map[string]int, len(table.Header))
	for i, h := range table.Header {
		key := source.NormalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var cols columns
	mandatory := []struct {
		field string
		name  string
		dst   *int
	}{
		{"date", m.Date, &cols.date},
		{"institutions", m.Institutions, &cols.institutions},
		{"volume", m.Volume, &cols.volume},
		{"amount", m.Amount, &cols.amount},
	}
	for _, mc := range mandatory {
		i, ok := index[source.NormalizeHeader(mc.name)]
		if mc.name == "" || !ok {
			return columns{}, &MissingColumnError{Source: table.Source, Field: mc.field, Column: mc.name}
		}
		*mc.dst = i
	}

	cols.tag = -1
	if m.Tag != "" {
		if i, ok := index[source.NormalizeHeader(m.Tag)]; ok {
			cols.tag = i
		}
	}
	return cols, nil
}
