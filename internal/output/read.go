package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/source"
	"github.com/theirongolddev/paytrend/internal/store"
)

// Read loads an artifact written by Write. Cells equal to token (or blank)
// are missing. Rows with an unknown platform are skipped, matching how
// consumers filter to the known platforms.
func Read(path, token string) ([]model.Record, error) {
	if token == "" {
		token = DefaultMissingToken
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if format == FormatSQLite {
		db, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()
		return db.LoadRecords()
	}

	table, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTable(table, token)
}

func parseTable(table model.RawTable, token string) ([]model.Record, error) {
	idx := make([]int, len(model.Columns))
	for i, col := range model.Columns {
		idx[i] = -1
		for j, h := range table.Header {
			if h == col {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("%s: column %q not found", table.Source, col)
		}
	}

	records := make([]model.Record, 0, len(table.Rows))
	for r := range table.Rows {
		platform := model.Platform(strings.TrimSpace(cellText(table.Cell(r, idx[1]))))
		if !platform.Valid() {
			continue
		}
		period, err := model.ParsePeriod(cellText(table.Cell(r, idx[0])))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table.Source, r+2, err)
		}
		rec := model.Record{Period: period, Platform: platform}
		for i, dst := range []*model.Value{&rec.Institutions, &rec.VolumeMn, &rec.AmountINR, &rec.TagCount} {
			v, err := parseValue(table.Cell(r, idx[i+2]), token)
			if err != nil {
				return nil, fmt.Errorf("%s row %d %s: %w", table.Source, r+2, model.Columns[i+2], err)
			}
			*dst = v
		}
		records = append(records, rec)
	}
	return records, nil
}

func cellText(c model.RawCell) string {
	if c.Kind == model.CellNumber {
		return decimal.NewFromFloat(c.Num).String()
	}
	return c.Text
}

func parseValue(c model.RawCell, token string) (model.Value, error) {
	switch c.Kind {
	case model.CellNumber:
		return model.Some(decimal.NewFromFloat(c.Num)), nil
	case model.CellText:
		s := strings.TrimSpace(c.Text)
		if s == "" || s == token {
			return model.Missing, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return model.Missing, err
		}
		return model.Some(d), nil
	}
	return model.Missing, nil
}
