// Package normalize maps one source sheet onto the canonical payment schema.
package normalize

import (
	"fmt"

	"github.com/theirongolddev/paytrend/internal/model"
)

// Mapping names the raw columns that feed each canonical field.
// Tag is optional; the rest are mandatory.
type Mapping struct {
	Platform     model.Platform
	Date         string
	Institutions string
	Volume       string
	Amount       string // crore-denominated
	Tag          string
}

// Column titles of the published NPCI workbooks.
var (
	UPIMapping = Mapping{
		Platform:     model.UPI,
		Date:         "Month",
		Institutions: "No. of Banks live on UPI",
		Volume:       "Volume (in Mn)",
		Amount:       "Value (in Cr.)",
	}
	IMPSMapping = Mapping{
		Platform:     model.IMPS,
		Date:         "Month",
		Institutions: "No. of Member Banks",
		Volume:       "Volume (in Mn)",
		Amount:       "Value (in Cr.)",
	}
	NETCMapping = Mapping{
		Platform:     model.NETC,
		Date:         "Month",
		Institutions: "No. of Banks Live on NETC",
		Volume:       "Volume (In Mn)",
		Amount:       "Amount (In Cr)",
		Tag:          "Tag Issuance (In Nos.)",
	}
)

// DefaultMapping returns the built-in mapping for p.
func DefaultMapping(p model.Platform) (Mapping, error) {
	switch p {
	case model.UPI:
		return UPIMapping, nil
	case model.IMPS:
		return IMPSMapping, nil
	case model.NETC:
		return NETCMapping, nil
	}
	return Mapping{}, fmt.Errorf("no mapping for platform %q", p)
}

// MissingColumnError reports a mandatory mapped column absent from a source.
type MissingColumnError struct {
	Source string
	Field  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: mandatory %s column %q not found", e.Source, e.Field, e.Column)
}
