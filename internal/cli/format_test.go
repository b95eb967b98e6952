package cli

import "testing"

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		2.5e12:  "₹2.50T",
		3.1e9:   "₹3.10B",
		4.2e7:   "₹4.20Cr",
		150000:  "₹1.50L",
		12345:   "₹12,345",
		0:       "₹0",
		-4.2e7:  "-₹4.20Cr",
		99999.6: "₹100,000",
	}
	for in, want := range cases {
		if got := FormatINR(in); got != want {
			t.Errorf("FormatINR(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatGrowth(t *testing.T) {
	if got := FormatGrowth(12.345, true); got != "+12.3%" {
		t.Errorf("FormatGrowth = %q", got)
	}
	if got := FormatGrowth(-5, true); got != "-5.0%" {
		t.Errorf("FormatGrowth = %q", got)
	}
	if got := FormatGrowth(0, false); got != "n/a" {
		t.Errorf("FormatGrowth = %q", got)
	}
}

func TestFormatVolume(t *testing.T) {
	if got := FormatVolume(1234.56); got != "1,234.6 Mn" {
		t.Errorf("FormatVolume = %q", got)
	}
}
