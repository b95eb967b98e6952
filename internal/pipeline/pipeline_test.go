package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/normalize"
	"github.com/theirongolddev/paytrend/internal/output"
)

// writeSheet creates a temp CSV sheet and returns its path.
func writeSheet(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func syntheticSources(t *testing.T) []Source {
	t.Helper()
	dir := t.TempDir()
	upi := writeSheet(t, dir, "upi.csv",
		`Month,No. of Banks live on UPI,Volume (in Mn),Value (in Cr.)`,
		`Nov-16,30,0.29,"1,00.46"`,
		`Dec-16,35,1.99,707.93`,
	)
	imps := writeSheet(t, dir, "imps.csv",
		`Month,No. of Member Banks,Volume (in Mn),Value (in Cr.)`,
		`Oct-16,82,35.6,"31,505.12"`,
		`Nov-16,84,36.24,"32,494.00"`,
	)
	netc := writeSheet(t, dir, "fastag.csv",
		`Month,No. of Banks Live on NETC,Volume (In Mn),Amount (In Cr),Tag Issuance (In Nos.)`,
		`Dec-16,,0.01,1.1.5,"1,200"`,
		`Nov-16,5,0.5,10.5,900`,
	)
	return []Source{
		{Path: upi, Mapping: normalize.UPIMapping},
		{Path: imps, Mapping: normalize.IMPSMapping},
		{Path: netc, Mapping: normalize.NETCMapping},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	p := &Pipeline{Sources: syntheticSources(t), Floor: DefaultFloor}
	result, err := p.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Records) != 5 {
		t.Fatalf("records = %d, want 5", len(result.Records))
	}
	if len(result.Duplicates) != 0 {
		t.Errorf("unexpected duplicates: %v", result.Duplicates)
	}

	imps := result.Sources[1]
	if imps.Platform != model.IMPS || imps.Rows != 2 || imps.BeforeFloor != 1 || imps.Kept != 1 {
		t.Errorf("IMPS stats = %+v", imps)
	}

	var buf bytes.Buffer
	if err := output.WriteCSV(&buf, result.Records, output.DefaultMissingToken); err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "consolidated", buf.Bytes())
}

func TestRun_SourceOrderDoesNotMatter(t *testing.T) {
	srcs := syntheticSources(t)
	forward, err := (&Pipeline{Sources: srcs}).Run()
	if err != nil {
		t.Fatal(err)
	}
	reversed, err := (&Pipeline{Sources: []Source{srcs[2], srcs[1], srcs[0]}}).Run()
	if err != nil {
		t.Fatal(err)
	}

	var a, b bytes.Buffer
	_ = output.WriteCSV(&a, forward.Records, "NaN")
	_ = output.WriteCSV(&b, reversed.Records, "NaN")
	if a.String() != b.String() {
		t.Errorf("output depends on source order:\n%s\nvs\n%s", a.String(), b.String())
	}
}

func TestRun_ProgressReported(t *testing.T) {
	var calls []int
	p := &Pipeline{
		Sources: syntheticSources(t)[:1],
		Progress: func(current, total int) {
			calls = append(calls, current)
			if total != 1 {
				t.Errorf("total = %d, want 1", total)
			}
		},
	}
	if _, err := p.Run(); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Errorf("progress calls = %v, want [1]", calls)
	}
}

func TestRun_MissingColumnIsFatal(t *testing.T) {
	dir := t.TempDir()
	bad := writeSheet(t, dir, "upi.csv",
		`Month,Banks,Volume (in Mn),Value (in Cr.)`,
		`Nov-16,30,0.29,100.46`,
	)
	_, err := (&Pipeline{Sources: []Source{{Path: bad, Mapping: normalize.UPIMapping}}}).Run()

	var mce *normalize.MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if mce.Source != bad || mce.Column != "No. of Banks live on UPI" {
		t.Errorf("error = %+v", mce)
	}
}

func TestRun_UnreadableFileIsFatal(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "imps.xlsx")
	_, err := (&Pipeline{Sources: []Source{{Path: missing, Mapping: normalize.IMPSMapping}}}).Run()
	if err == nil || !strings.Contains(err.Error(), missing) {
		t.Fatalf("err = %v, want error naming %s", err, missing)
	}
}

func TestRun_NoSources(t *testing.T) {
	if _, err := (&Pipeline{}).Run(); err == nil {
		t.Fatal("expected error with no sources")
	}
}

func TestRun_CustomReader(t *testing.T) {
	p := &Pipeline{
		Sources: []Source{{Path: "mem", Mapping: normalize.IMPSMapping}},
		Read: func(path string) (model.RawTable, error) {
			return model.RawTable{
				Header: []string{"Month", "No. of Member Banks", "Volume (in Mn)", "Value (in Cr.)"},
				Rows: [][]model.RawCell{
					{model.TextCell("2016-12-01"), model.NumberCell(1), model.NumberCell(2), model.NumberCell(3)},
					{model.TextCell("2016-12-01"), model.NumberCell(1), model.NumberCell(2), model.NumberCell(3)},
				},
			}, nil
		},
	}
	result, err := p.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Duplicates) != 1 {
		t.Errorf("Duplicates = %v, want one key", result.Duplicates)
	}
	if len(result.Records) != 2 {
		t.Errorf("duplicates must be kept, got %d records", len(result.Records))
	}
}
