package source

import (
	"os"

	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/theirongolddev/paytrend/internal/model"
)

// ReadXLSX reads the first worksheet of an Excel workbook. The first row
// holding any cell is the header; numeric cells (dates included, as serials)
// become numbers and everything else text.
func ReadXLSX(path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return model.RawTable{}, err
	}

	wb, err := spreadsheet.Read(f, info.Size())
	if err != nil {
		return model.RawTable{}, err
	}

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return model.RawTable{}, ErrNoHeader
	}

	var t model.RawTable
	haveHeader := false
	for _, row := range sheets[0].Rows() {
		cells := readRow(row)
		if !haveHeader {
			if len(cells) == 0 {
				continue
			}
			t.Header = make([]string, len(cells))
			for i, c := range cells {
				if c.Kind == model.CellText {
					t.Header[i] = NormalizeHeader(c.Text)
				}
			}
			haveHeader = true
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if !haveHeader {
		return model.RawTable{}, ErrNoHeader
	}
	return t, nil
}

// readRow places every cell at its column index; gaps stay missing.
func readRow(row spreadsheet.Row) []model.RawCell {
	var out []model.RawCell
	for _, cell := range row.Cells() {
		col, err := cell.Column()
		if err != nil {
			continue
		}
		idx := int(reference.ColumnToIndex(col))
		for len(out) <= idx {
			out = append(out, model.RawCell{})
		}
		out[idx] = readCell(cell)
	}
	return out
}

func readCell(cell spreadsheet.Cell) model.RawCell {
	if cell.IsEmpty() {
		return model.RawCell{}
	}
	if cell.IsNumber() {
		if f, err := cell.GetValueAsNumber(); err == nil {
			return model.NumberCell(f)
		}
	}
	s, err := cell.GetRawValue()
	if err != nil {
		return model.RawCell{}
	}
	return model.TextCell(s)
}
