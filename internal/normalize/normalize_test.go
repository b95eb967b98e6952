package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/paytrend/internal/model"
)

func text(s string) model.RawCell { return model.TextCell(s) }

func netcTable() model.RawTable {
	return model.RawTable{
		Source: "fastag.xlsx",
		Header: []string{"Month", "No. of Banks Live on NETC", "Volume (In Mn)", "Amount (In Cr)", "Tag Issuance (In Nos.)"},
		Rows: [][]model.RawCell{
			{text("Apr-17"), text("5"), text("1.23"), text("10.5"), text("1,20" + "â€™" + "000")},
			{model.NumberCell(43101), text(" "), text("2.5"), text("1.234.56"), {}},
			{text("not a date"), text("7"), text("abc"), text(""), text("9")},
		},
	}
}

func TestNormalize_RowCountAndPlatform(t *testing.T) {
	recs, err := Normalize(netcTable(), NETCMapping)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, r := range recs {
		assert.Equal(t, model.NETC, r.Platform, "row %d", i)
	}
}

func TestNormalize_Fields(t *testing.T) {
	recs, err := Normalize(netcTable(), NETCMapping)
	require.NoError(t, err)

	first := recs[0]
	assert.Equal(t, model.MustPeriod("2017-04"), first.Period)
	assert.Equal(t, "5", first.Institutions.Decimal.String())
	assert.Equal(t, "105000000", first.AmountINR.Decimal.String())
	assert.Equal(t, "120000", first.TagCount.Decimal.String())

	second := recs[1]
	assert.Equal(t, model.MustPeriod("2018-01"), second.Period, "Excel serial 43101 is 2018-01-01")
	assert.False(t, second.Institutions.Valid, "whitespace-only cell is missing")
	assert.Equal(t, "12345600000", second.AmountINR.Decimal.String())
	assert.False(t, second.TagCount.Valid)

	third := recs[2]
	assert.True(t, third.Period.IsZero(), "unparseable date kept as missing")
	assert.False(t, third.VolumeMn.Valid)
	assert.False(t, third.AmountINR.Valid)
}

func TestNormalize_CroreConversionExact(t *testing.T) {
	got := toRupees(model.Some(decimal.RequireFromString("10.5")))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.NewFromInt(105000000)), "got %s", got.Decimal)
	assert.Equal(t, "105000000.00", got.Format("NaN"))

	assert.False(t, toRupees(model.Missing).Valid)
}

func TestNormalize_NoTagMappingLeavesTagMissing(t *testing.T) {
	table := model.RawTable{
		Header: []string{"Month", "No. of Banks live on UPI", "Volume (in Mn)", "Value (in Cr.)", "Tag Issuance (In Nos.)"},
		Rows: [][]model.RawCell{
			{text("Nov-16"), text("30"), text("0.29"), text("100.46"), text("0")},
			{text("Dec-16"), text("35"), text("1.99"), text("707.93"), text("12")},
		},
	}
	recs, err := Normalize(table, UPIMapping)
	require.NoError(t, err)
	for _, r := range recs {
		assert.False(t, r.TagCount.Valid, "tag must be missing, not zero")
	}
}

func TestNormalize_TagColumnAbsentFromTable(t *testing.T) {
	table := netcTable()
	table.Header = table.Header[:4]
	recs, err := Normalize(table, NETCMapping)
	require.NoError(t, err)
	for _, r := range recs {
		assert.False(t, r.TagCount.Valid)
	}
}

func TestNormalize_MissingMandatoryColumn(t *testing.T) {
	table := netcTable()
	table.Header[2] = "Volume"

	_, err := Normalize(table, NETCMapping)
	require.Error(t, err)

	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce), "want *MissingColumnError, got %T", err)
	assert.Equal(t, "fastag.xlsx", mce.Source)
	assert.Equal(t, "Volume (In Mn)", mce.Column)
	assert.Contains(t, err.Error(), "fastag.xlsx")
	assert.Contains(t, err.Error(), "Volume (In Mn)")
}

func TestNormalize_HeaderMatchIgnoresSpacing(t *testing.T) {
	table := model.RawTable{
		Header: []string{" Month ", "No. of  Member Banks", "Volume (in Mn)", "Value (in Cr.)"},
		Rows:   [][]model.RawCell{{text("2019-03-01"), text("1"), text("2"), text("3")}},
	}
	recs, err := Normalize(table, IMPSMapping)
	require.NoError(t, err)
	assert.Equal(t, model.IMPS, recs[0].Platform)
	assert.Equal(t, "30000000", recs[0].AmountINR.Decimal.String())
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   model.RawCell
		want string
	}{
		{text("Nov-16"), "2016-11"},
		{text("NOV-16"), "2016-11"},
		{text("nov-2016"), "2016-11"},
		{text("November 2016"), "2016-11"},
		{text("November-16"), "2016-11"},
		{text("NOVEMBER-16"), "2016-11"},
		{text("2016-11-01T00:00:00"), "2016-11"},
		{text("2016-11-01"), "2016-11"},
		{text("2016-11-01 00:00:00"), "2016-11"},
		{text("2016-11"), "2016-11"},
		{text("11/15/2016"), "2016-11"},
		{text("15-Nov-2016"), "2016-11"},
		{model.NumberCell(42675), "2016-11"},
		{model.NumberCell(42704.5), "2016-11"},
		{text("soon"), ""},
		{text("2016-13-01"), ""},
		{model.NumberCell(-1), ""},
		{model.NumberCell(1e9), ""},
		{model.RawCell{}, ""},
	}
	for _, tt := range tests {
		if got := parsePeriod(tt.in).String(); got != tt.want {
			t.Errorf("parsePeriod(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromSerialEpoch(t *testing.T) {
	tests := []struct {
		serial float64
		want   model.Period
	}{
		{1, model.Period{Year: 1900, Month: time.January}},
		{31, model.Period{Year: 1900, Month: time.January}},
		{32, model.Period{Year: 1900, Month: time.February}},
		{59, model.Period{Year: 1900, Month: time.February}},
		{60, model.Period{Year: 1900, Month: time.February}},
		{61, model.Period{Year: 1900, Month: time.March}},
		{42675, model.Period{Year: 2016, Month: time.November}},
	}
	for _, tt := range tests {
		if got := fromSerial(tt.serial); got != tt.want {
			t.Errorf("fromSerial(%v) = %s, want %s", tt.serial, got, tt.want)
		}
	}
}

func TestDefaultMapping(t *testing.T) {
	for _, p := range model.Platforms {
		m, err := DefaultMapping(p)
		require.NoError(t, err)
		assert.Equal(t, p, m.Platform)
	}
	_, err := DefaultMapping("RTGS")
	assert.Error(t, err)
}
