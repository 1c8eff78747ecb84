package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// run executes the root command with args against an isolated home.
func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func testHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CERDITOS_HOME", home)
	t.Setenv("CERDITOS_LOG_LEVEL", "error")
	t.Setenv("APP_PASSWORD", "")
	t.Setenv("CERDITOS_PORT", "")
	return home
}

func TestFarrowingCommand(t *testing.T) {
	home := testHome(t)

	out, err := run(t, home, "farrowing", "2024-01-01")
	if err != nil {
		t.Fatalf("farrowing error: %v", err)
	}
	if !strings.Contains(out, "2024-04-24") {
		t.Errorf("output = %q, want 2024-04-24", out)
	}

	if _, err := run(t, home, "farrowing", "2024-02-30"); err == nil {
		t.Error("farrowing with a non-calendar date should fail")
	}
}

func TestPSYCommand(t *testing.T) {
	home := testHome(t)

	out, err := run(t, home, "psy", "--weaned", "120", "--sows", "20", "--days", "180")
	if err != nil {
		t.Fatalf("psy error: %v", err)
	}
	if !strings.Contains(out, "12.17") {
		t.Errorf("output = %q, want 12.17", out)
	}

	out, err = run(t, home, "psy", "--weaned", "120", "--sows", "0", "--days", "180")
	if err != nil {
		t.Fatalf("psy error: %v", err)
	}
	if !strings.Contains(out, "undefined") {
		t.Errorf("output = %q, want undefined", out)
	}
}

func TestRecordAndFinanceCommands(t *testing.T) {
	home := testHome(t)

	out, err := run(t, home, "animal", "add", "--tag", "M-01", "--category", "Marrana", "--sex", "Hembra", "--born", "", "--status", "Activo", "--breed", "")
	if err != nil {
		t.Fatalf("animal add error: %v", err)
	}
	if !strings.Contains(out, "M-01") {
		t.Errorf("animal add output = %q", out)
	}

	out, err = run(t, home, "animal", "list")
	if err != nil {
		t.Fatalf("animal list error: %v", err)
	}
	if !strings.Contains(out, "Animals (1)") {
		t.Errorf("animal list output = %q", out)
	}

	if _, err := run(t, home, "sale", "add", "--date", "2024-02-10", "--kind", "Engorde", "--quantity", "10", "--price", "150000", "--weight", "0", "--buyer", ""); err != nil {
		t.Fatalf("sale add error: %v", err)
	}
	if _, err := run(t, home, "expense", "add", "--date", "2024-02-11", "--category", "Otros", "--amount", "-5", "--description", ""); err == nil {
		t.Error("expense add with a negative amount should fail")
	}
	if _, err := run(t, home, "finance", "--start", "2024-01-01", "--end", "2024-02-28", "--investment", "1e300000000"); err == nil {
		t.Error("finance with an oversized investment should fail")
	}

	chart := filepath.Join(home, "flow.png")
	out, err = run(t, home, "finance", "--start", "2024-01-01", "--end", "2024-02-28", "--investment", "100000", "--chart", chart, "--json=false")
	if err != nil {
		t.Fatalf("finance error: %v", err)
	}
	for _, want := range []string{"2024-02", "150,000.00", "Payback:  month 2", "Status:   ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("finance output missing %q:\n%s", want, out)
		}
	}
	if info, err := os.Stat(chart); err != nil || info.Size() == 0 {
		t.Errorf("chart not written: %v", err)
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1234567.891", "1,234,567.89"},
		{"-100000", "-100,000.00"},
	}
	for _, tt := range tests {
		if got := money(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("money(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
