package source

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader folds a column title into the form used for matching:
// NFKC (so non-breaking spaces and full-width digits compare equal) with
// runs of whitespace collapsed to one space.
func NormalizeHeader(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
