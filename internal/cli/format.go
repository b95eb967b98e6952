// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/paytrend/internal/model"
)

// FormatINR formats a rupee amount with Indian-style magnitude suffixes.
// e.g., 2.5e12 -> "₹2.50T", 3.1e9 -> "₹3.10B", 4.2e7 -> "₹4.20Cr", 150000 -> "₹1.50L"
func FormatINR(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}

	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%s₹%.2fT", sign, abs/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%s₹%.2fB", sign, abs/1e9)
	case abs >= 1e7:
		return fmt.Sprintf("%s₹%.2fCr", sign, abs/1e7)
	case abs >= 1e5:
		return fmt.Sprintf("%s₹%.2fL", sign, abs/1e5)
	default:
		return sign + "₹" + FormatNumber(int64(math.Round(abs)))
	}
}

// FormatValue formats an optional value with two decimals, or "—" when missing.
func FormatValue(v model.Value) string {
	return v.Format("—")
}

// FormatVolume formats a volume in millions, e.g. 1234.5 -> "1,234.5 Mn".
func FormatVolume(mn float64) string {
	s := strconv.FormatFloat(math.Abs(mn), 'f', 1, 64)
	dot := strings.IndexByte(s, '.')
	whole, _ := strconv.ParseInt(s[:dot], 10, 64)
	out := FormatNumber(whole) + s[dot:] + " Mn"
	if mn < 0 {
		out = "-" + out
	}
	return out
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatGrowth formats a growth percentage, or "n/a" when it is undefined.
func FormatGrowth(pct float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}
