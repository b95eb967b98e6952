package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/theirongolddev/paytrend/internal/model"
)

// excelEpoch is day zero of the 1900 date system for serials from 61
// (1900-03-01) on. Excel counts a phantom 1900-02-29 as serial 60 for Lotus
// compatibility, so earlier serials sit one day later than this epoch says.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const phantomLeapSerial = 60

// Excel cannot represent dates past 9999-12-31 (serial 2958465).
const maxExcelSerial = 2958465

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
	"1/2/2006",
	"Jan-06",
	"Jan-2006",
	"January-2006",
	"January-06",
	"Jan 2006",
	"January 2006",
	"Jan'06",
	"Jan 06",
	"02-Jan-2006",
	"02-Jan-06",
}

// parsePeriod converts a date cell to its month. The zero Period means the
// cell could not be read as a date.
func parsePeriod(cell model.RawCell) model.Period {
	switch cell.Kind {
	case model.CellNumber:
		return fromSerial(cell.Num)
	case model.CellText:
		return parseDateText(cell.Text)
	}
	return model.Period{}
}

func fromSerial(serial float64) model.Period {
	if math.IsNaN(serial) || serial < 1 || serial > maxExcelSerial {
		return model.Period{}
	}
	days := int(serial)
	switch {
	case days == phantomLeapSerial:
		return model.Period{Year: 1900, Month: time.February}
	case days < phantomLeapSerial:
		days++
	}
	return model.PeriodOf(excelEpoch.AddDate(0, 0, days))
}

func parseDateText(s string) model.Period {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Period{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.PeriodOf(t)
		}
	}
	// Title-case month names ("NOV-16", "nov-16") before giving up.
	if folded := titleMonth(s); folded != s {
		return parseDateText(folded)
	}
	return model.Period{}
}

func titleMonth(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	switch {
	case end == 0:
		return s
	case end < 0:
		end = len(s)
	}
	word := s[:end]
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:]) + s[end:]
}
