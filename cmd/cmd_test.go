package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theirongolddev/paytrend/internal/config"
	"github.com/theirongolddev/paytrend/internal/forecast"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/normalize"
	"github.com/theirongolddev/paytrend/internal/output"
	"github.com/theirongolddev/paytrend/internal/pipeline"
)

// resetFlags restores every flag to its default so tests don't leak state
// through the package-level flag vars.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.PersistentFlags().VisitAll(reset)
		c.Flags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

// workspace writes three small source sheets and a config pointing at them.
func workspace(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, filepath.Join(dir, "upi.csv"),
		`Month,No. of Banks live on UPI,Volume (in Mn),Value (in Cr.)`,
		`Nov-16,30,0.29,"1,00.46"`,
		`Dec-16,35,1.99,707.93`,
		`Jan-17,44,4.15,"1,696.22"`,
	)
	writeFile(t, filepath.Join(dir, "imps.csv"),
		`Month,No. of Member Banks,Volume (in Mn),Value (in Cr.)`,
		`Oct-16,82,35.6,"31,505.12"`,
		`Nov-16,84,36.24,"32,494.00"`,
		`Dec-16,86,43.4,"38,918.00"`,
	)
	writeFile(t, filepath.Join(dir, "fastag.csv"),
		`Month,No. of Banks Live on NETC,Volume (In Mn),Amount (In Cr),Tag Issuance (In Nos.)`,
		`Nov-16,5,0.5,10.5,900`,
	)

	cfg := config.DefaultConfig()
	cfg.Sources.UPI.Path = filepath.Join(dir, "upi.csv")
	cfg.Sources.IMPS.Path = filepath.Join(dir, "imps.csv")
	cfg.Sources.NETC.Path = filepath.Join(dir, "fastag.csv")
	cfg.General.Output = filepath.Join(dir, "payments.csv")
	cfgPath = filepath.Join(dir, "config.toml")
	if err := config.SaveTo(cfgPath, cfg); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestBuildWritesConsolidatedTable(t *testing.T) {
	dir, cfgPath := workspace(t)
	if err := execute(t, "build", "--config", cfgPath, "-q"); err != nil {
		t.Fatalf("build: %v", err)
	}

	records, err := output.Read(filepath.Join(dir, "payments.csv"), "")
	if err != nil {
		t.Fatal(err)
	}
	// IMPS Oct-16 falls before the floor.
	if len(records) != 6 {
		t.Fatalf("got %d records, want 6", len(records))
	}
	first := records[0]
	if first.Period != model.MustPeriod("2016-11") || first.Platform != model.IMPS {
		t.Errorf("first record = %s %s, want 2016-11 IMPS", first.Period, first.Platform)
	}
	if got := first.AmountINR.Format(""); got != "324940000000.00" {
		t.Errorf("IMPS amount = %s, want 324940000000.00", got)
	}
}

func TestBuildIsDefaultCommand(t *testing.T) {
	dir, cfgPath := workspace(t)
	out := filepath.Join(dir, "payments.db")
	if err := execute(t, "--config", cfgPath, "-q", "-o", out); err != nil {
		t.Fatalf("root: %v", err)
	}
	records, err := output.Read(out, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 6 {
		t.Errorf("got %d records from sqlite, want 6", len(records))
	}
}

func TestRootRunsBuild(t *testing.T) {
	if rootCmd.RunE == nil {
		t.Fatal("root command has no RunE; bare paytrend would only print help")
	}
	if buildCmd.Parent() != rootCmd {
		t.Error("build is not registered under the root command")
	}
}

func TestBuildMissingColumnIsFatal(t *testing.T) {
	dir, cfgPath := workspace(t)
	writeFile(t, filepath.Join(dir, "imps.csv"),
		`Month,Volume (in Mn),Value (in Cr.)`,
		`Nov-16,36.24,"32,494.00"`,
	)

	err := execute(t, "build", "--config", cfgPath, "-q")
	var mce *normalize.MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "payments.csv")); !os.IsNotExist(statErr) {
		t.Error("no output should be written when a source is misconfigured")
	}
}

func TestReportsRunAgainstBuiltTable(t *testing.T) {
	_, cfgPath := workspace(t)
	if err := execute(t, "build", "--config", cfgPath, "-q"); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := execute(t, "summary", "--config", cfgPath, "-q"); err != nil {
		t.Errorf("summary: %v", err)
	}
	if err := execute(t, "forecast", "--config", cfgPath, "-q", "-p", "upi", "-m", "24"); err != nil {
		t.Errorf("forecast: %v", err)
	}
	if err := execute(t, "config", "--config", cfgPath); err != nil {
		t.Errorf("config: %v", err)
	}
}

func TestSummaryBuildsWhenTableAbsent(t *testing.T) {
	_, cfgPath := workspace(t)
	if err := execute(t, "summary", "--config", cfgPath, "-q"); err != nil {
		t.Errorf("summary without a built table: %v", err)
	}
}

func TestSummaryForYear(t *testing.T) {
	_, cfgPath := workspace(t)
	if err := execute(t, "summary", "--config", cfgPath, "-q", "--year", "2016"); err != nil {
		t.Errorf("summary --year 2016: %v", err)
	}
	err := execute(t, "summary", "--config", cfgPath, "-q", "--year", "2030")
	if err == nil || !strings.Contains(err.Error(), "2016 to 2017") {
		t.Errorf("err = %v, want the covered year range", err)
	}
}

func TestYearRecordsAndTable(t *testing.T) {
	_, cfgPath := workspace(t)
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })
	flagConfig = cfgPath
	flagQuiet = true

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	records, err := loadRecords(cfg)
	if err != nil {
		t.Fatal(err)
	}
	records, err = yearRecords(records, 2017)
	if err != nil {
		t.Fatal(err)
	}
	// Only UPI reported in January 2017.
	if len(records) != 1 || records[0].Platform != model.UPI {
		t.Fatalf("2017 records = %+v", records)
	}

	tbl := summaryTable(pipeline.Summarize(records, pipeline.AggregateOptions{}))
	if tbl.Headers[5] != "Lowest" {
		t.Errorf("headers = %v, want Lowest after Peak", tbl.Headers)
	}
	if got := tbl.Rows[0][5]; !strings.HasSuffix(got, "(2017-01)") {
		t.Errorf("UPI lowest = %q, want the January 2017 month", got)
	}
}

func TestForecastTableHasBand(t *testing.T) {
	projection := []forecast.Point{
		{Period: model.MustPeriod("2025-01"), Value: 2e9, Lower: 1e9, Upper: 3e9},
		{Period: model.MustPeriod("2025-02"), Value: 2e9, Lower: 1e9, Upper: 3e9},
		{Period: model.MustPeriod("2025-03"), Value: 4e9, Lower: 3e9, Upper: 5e9},
	}
	tbl := forecastTable(projection, 2)
	if strings.Join(tbl.Headers, ",") != "Month,Projected amount,Low,High" {
		t.Errorf("headers = %v", tbl.Headers)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("got %d rows, want every second month plus the last", len(tbl.Rows))
	}
	want := []string{"2025-03", "₹4.00B", "₹3.00B", "₹5.00B"}
	if strings.Join(tbl.Rows[1], "|") != strings.Join(want, "|") {
		t.Errorf("last row = %v, want %v", tbl.Rows[1], want)
	}
}

func TestForecastRejectsUnknownPlatform(t *testing.T) {
	_, cfgPath := workspace(t)
	err := execute(t, "forecast", "--config", cfgPath, "-q", "-p", "neft")
	if err == nil || !strings.Contains(err.Error(), "unknown platform") {
		t.Errorf("err = %v, want unknown platform", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	_, cfgPath := workspace(t)
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	if err := rootCmd.PersistentFlags().Parse([]string{
		"--config", cfgPath, "--floor", "2017-01", "--missing-as-zero=false", "--missing-token", "NA",
	}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.Floor != "2017-01" || cfg.General.MissingAsZero || cfg.General.MissingToken != "NA" {
		t.Errorf("general = %+v", cfg.General)
	}
	if !strings.HasSuffix(cfg.Sources.UPI.Path, "upi.csv") {
		t.Errorf("UPI path = %q, want the config file's value", cfg.Sources.UPI.Path)
	}
}

func TestLoadConfigRejectsBadFloor(t *testing.T) {
	_, cfgPath := workspace(t)
	if err := execute(t, "build", "--config", cfgPath, "-q", "--floor", "Nov 2016"); err == nil {
		t.Error("expected an error for a malformed floor")
	}
}

func TestParsePlatform(t *testing.T) {
	cases := map[string]model.Platform{
		"upi":      model.UPI,
		" IMPS ":   model.IMPS,
		"fastag":   model.NETC,
		"netc":     model.NETC,
		"combined": pipeline.Combined,
	}
	for in, want := range cases {
		got, err := parsePlatform(in)
		if err != nil || got != want {
			t.Errorf("parsePlatform(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
