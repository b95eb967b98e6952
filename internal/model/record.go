// Package model defines the canonical payment record and the raw spreadsheet types it is built from.
package model

import "github.com/shopspring/decimal"

// Platform identifies the payment system a record was reported by.
type Platform string

// Known platforms. The tag is assigned per source, never read from data.
const (
	UPI  Platform = "UPI"
	IMPS Platform = "IMPS"
	NETC Platform = "NETC" // electronic toll collection (FASTag)
)

// Platforms lists every known platform in lexical order.
var Platforms = []Platform{IMPS, NETC, UPI}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case UPI, IMPS, NETC:
		return true
	}
	return false
}

// DisplayName returns the label consumers show for p.
func (p Platform) DisplayName() string {
	if p == NETC {
		return "FASTag"
	}
	return string(p)
}

// Value is a decimal that may be missing ("not reported"), which is distinct from zero.
type Value struct {
	decimal.NullDecimal
}

// Missing is the explicit not-reported marker.
var Missing = Value{}

// Some wraps a present decimal.
func Some(d decimal.Decimal) Value {
	return Value{decimal.NullDecimal{Decimal: d, Valid: true}}
}

// Float returns the value as float64 and whether it is present.
func (v Value) Float() (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	return v.Decimal.InexactFloat64(), true
}

// Format renders v with two decimals, or token when missing.
func (v Value) Format(token string) string {
	if !v.Valid {
		return token
	}
	return v.Decimal.StringFixed(2)
}

// Record is one row of the canonical table.
type Record struct {
	Period       Period
	Platform     Platform
	Institutions Value // participating_institutions
	VolumeMn     Value // transaction_volume_millions
	AmountINR    Value // transaction_amount_inr
	TagCount     Value // secondary_tag_count, NETC only
}

// Columns is the canonical column order of the output table.
var Columns = []string{
	"period",
	"platform",
	"participating_institutions",
	"transaction_volume_millions",
	"transaction_amount_inr",
	"secondary_tag_count",
}
