package output

import (
	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/theirongolddev/paytrend/internal/model"
)

// writeXLSX writes one sheet. Numbers are real numeric cells displayed with
// two decimals; missing values are the token as text.
func writeXLSX(path string, records []model.Record, token string) error {
	wb := spreadsheet.New()
	sheet := wb.AddSheet()
	sheet.SetName("payments")

	fixed := wb.StyleSheet.AddCellStyle()
	fixed.SetNumberFormat("0.00")

	header := sheet.AddRow()
	for _, col := range model.Columns {
		header.AddCell().SetString(col)
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Period.String())
		row.AddCell().SetString(string(r.Platform))
		for _, v := range []model.Value{r.Institutions, r.VolumeMn, r.AmountINR, r.TagCount} {
			cell := row.AddCell()
			if !v.Valid {
				cell.SetString(token)
				continue
			}
			f, _ := v.Decimal.Round(2).Float64()
			cell.SetNumber(f)
			cell.SetStyle(fixed)
		}
	}

	return wb.SaveToFile(path)
}
