package source

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/paytrend/internal/model"
)

const utf8BOM = "\ufeff"

// ReadCSV reads a comma-separated sheet. Every field is kept as text.
func ReadCSV(path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, err
	}
	defer func() { _ = f.Close() }()

	return parseCSV(f)
}

func parseCSV(r io.Reader) (model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are padded as missing later

	records, err := cr.ReadAll()
	if err != nil {
		return model.RawTable{}, err
	}
	if len(records) == 0 {
		return model.RawTable{}, ErrNoHeader
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = NormalizeHeader(h)
	}

	t := model.RawTable{Header: header, Rows: make([][]model.RawCell, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make([]model.RawCell, len(rec))
		for i, field := range rec {
			row[i] = model.TextCell(field)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
