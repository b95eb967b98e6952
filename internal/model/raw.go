package model

// CellKind classifies a raw spreadsheet cell.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// RawCell is an untyped scalar read from a spreadsheet.
type RawCell struct {
	Kind CellKind
	Num  float64
	Text string
}

// NumberCell builds a numeric cell.
func NumberCell(f float64) RawCell { return RawCell{Kind: CellNumber, Num: f} }

// TextCell builds a text cell. Text is kept verbatim.
func TextCell(s string) RawCell { return RawCell{Kind: CellText, Text: s} }

// RawTable is one sheet as read from a source file: a header row and data rows.
type RawTable struct {
	Source string // file the table was read from, used in diagnostics
	Header []string
	Rows   [][]RawCell
}

// Cell returns row r, column c, treating short rows as missing.
func (t RawTable) Cell(r, c int) RawCell {
	row := t.Rows[r]
	if c < 0 || c >= len(row) {
		return RawCell{}
	}
	return row[c]
}
