package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/username/worksite-calendar/internal/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// testConfig writes a config serving XX holidays from a file
func testConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	holidays := writeFile(t, dir, "holidays.txt", `
# site holidays
2025-07-04 XX Founders Day
2025-12-25 XX Christmas
`)
	cfgPath := writeFile(t, dir, "config.yaml", `
calendar:
  jurisdiction: XX
  blocked_dates: ["2025-03-12"]
  weather_dates: ["2025-03-13"]
holidays:
  source: file
  file: `+holidays+`
state:
  selection_file: `+filepath.Join(dir, "selection.json")+`
log:
  level: error
`)
	return cfgPath, dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	presetFlag, jurisdiction, configPath = "", "", ""

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	cfgPath, _ := testConfig(t)

	out, err := run(t, "--config", cfgPath, "check", "2025-07-04", "2025-03-12", "2025-03-13", "2025-03-15")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}

	wants := []string{
		"2025-07-04 Fri  off (holiday)",
		"2025-03-12 Wed  off (blocked)",
		"2025-03-13 Thu  work  [weather advisory]",
		"2025-03-15 Sat  off (weekend)",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRangeCommand(t *testing.T) {
	cfgPath, _ := testConfig(t)

	out, err := run(t, "--config", cfgPath, "range", "2025-03-10", "2025-03-16", "--quiet")
	if err != nil {
		t.Fatalf("range error = %v", err)
	}
	if !strings.Contains(out, "Work days: 4") {
		t.Errorf("output = %q, want 4 work days", out)
	}

	if _, err := run(t, "--config", cfgPath, "range", "2025-03-16", "2025-03-10"); err == nil {
		t.Error("reversed range should fail")
	}
}

func TestNextPrevAdd(t *testing.T) {
	cfgPath, _ := testConfig(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"next", "2025-07-03"}, "2025-07-07"},
		{[]string{"prev", "2025-07-07"}, "2025-07-03"},
		{[]string{"add", "2025-03-07", "3"}, "2025-03-13"},
		{[]string{"--preset", "emergency", "next", "2025-07-03"}, "2025-07-04"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if strings.TrimSpace(out) != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestMonthCommand(t *testing.T) {
	cfgPath, _ := testConfig(t)

	out, err := run(t, "--config", cfgPath, "month", "2025-07", "--brief")
	if err != nil {
		t.Fatalf("month error = %v", err)
	}
	for _, want := range []string{"July 2025 (standard@1, XX)", "Work days:      22", "Holidays:       1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSelectCommand_Range(t *testing.T) {
	cfgPath, dir := testConfig(t)

	steps := []struct {
		date  string
		wants []string
	}{
		{"2025-03-10", []string{"Selection: range-start(2025-03-10)"}},
		{"2025-03-15", []string{"Rejected 2025-03-15 (weekend)"}},
		{"2025-03-05", []string{
			"Selection: range-complete(2025-03-05..2025-03-10)",
			"Work days in range: 4 of 6 calendar day(s)",
		}},
	}

	for _, step := range steps {
		out, err := run(t, "--config", cfgPath, "select", "--mode", "range", step.date)
		if err != nil {
			t.Fatalf("select %s error = %v", step.date, err)
		}
		for _, want := range step.wants {
			if !strings.Contains(out, want) {
				t.Errorf("select %s output = %q, want %q", step.date, out, want)
			}
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "selection.json")); err != nil {
		t.Fatalf("selection file not written: %v", err)
	}

	out, err := run(t, "--config", cfgPath, "reset")
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if !strings.Contains(out, "Selection: empty") {
		t.Errorf("reset output = %q", out)
	}
}

func TestHolidaysCommand(t *testing.T) {
	cfgPath, _ := testConfig(t)

	out, err := run(t, "--config", cfgPath, "holidays", "--year", "2025")
	if err != nil {
		t.Fatalf("holidays error = %v", err)
	}
	if !strings.Contains(out, "2025-07-04 Fri  Founders Day") || !strings.Contains(out, "XX 2025: 2 holiday(s)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, "--config", cfgPath, "--jurisdiction", "US", "holidays", "--year", "2025")
	if err != nil {
		t.Fatalf("holidays US error = %v", err)
	}
	if !strings.Contains(out, "2025-07-04") {
		t.Errorf("built-in US holidays missing Independence Day:\n%s", out)
	}
}

func TestLoadEngine_WarnsOnUncoveredJurisdiction(t *testing.T) {
	tests := []struct {
		name         string
		preset       string
		jurisdiction string
		wantWarnings int
	}{
		{"unsupported jurisdiction", "", "RU", 1},
		{"built-in jurisdiction", "", "GB", 0},
		{"holidays not excluded", "emergency", "RU", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			logger = zap.New(core)
			cfg = &config.Config{}
			presetFlag, jurisdiction = tt.preset, tt.jurisdiction

			if _, err := loadEngine(context.Background(), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)); err != nil {
				t.Fatalf("loadEngine() error = %v", err)
			}

			got := logs.FilterMessage("No holiday data for jurisdiction, holidays will not be excluded").Len()
			if got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d", got, tt.wantWarnings)
			}
		})
	}
}

func TestPresetFlagListsPresets(t *testing.T) {
	usage := newRootCmd().PersistentFlags().Lookup("preset").Usage
	for _, name := range []string{"emergency", "standard", "weekend-crew"} {
		if !strings.Contains(usage, name) {
			t.Errorf("--preset usage %q does not mention %s", usage, name)
		}
	}
}
