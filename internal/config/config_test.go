package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/username/worksite-calendar/internal/workcal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
calendar:
  preset: weekend-crew
  jurisdiction: gb
  exclude_holidays: false
  mode: range
  project_start: 2025-03-03
  project_end: "2025-12-19"
  blocked_dates:
    - 2025-07-04
    - "15.08.2025"
  blocked_rules:
    - every 2 weeks on friday
  weather_dates: ["2025-01-15"]
  critical_path: true
holidays:
  source: file
  file: holidays.txt
  jurisdictions: [RU]
  cache_ttl: 1h
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Calendar.Preset != "weekend-crew" {
		t.Errorf("Preset = %q, want weekend-crew", cfg.Calendar.Preset)
	}
	if cfg.Calendar.ExcludeHolidays == nil || *cfg.Calendar.ExcludeHolidays {
		t.Errorf("ExcludeHolidays = %v, want explicit false", cfg.Calendar.ExcludeHolidays)
	}
	if cfg.Calendar.ExcludeWeekends != nil {
		t.Errorf("ExcludeWeekends = %v, want unset", *cfg.Calendar.ExcludeWeekends)
	}
	if cfg.Calendar.ProjectStart != "2025-03-03" {
		t.Errorf("ProjectStart = %q, want 2025-03-03", cfg.Calendar.ProjectStart)
	}
	if got := cfg.Holidays.GetCacheTTL(); got != time.Hour {
		t.Errorf("GetCacheTTL() = %v, want 1h", got)
	}
	if cfg.Holidays.Retries != 3 {
		t.Errorf("Retries = %d, want default 3", cfg.Holidays.Retries)
	}
	if cfg.State.SelectionFile == "" {
		t.Error("SelectionFile should default")
	}

	raw, err := cfg.Calendar.Raw()
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if len(raw.BlockedDates) != 2 || !raw.BlockedDates[1].Equal(time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("BlockedDates = %v", raw.BlockedDates)
	}
	if raw.ProjectEndDate == nil || !raw.ProjectEndDate.Equal(time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ProjectEndDate = %v", raw.ProjectEndDate)
	}
	if raw.MinDate != nil {
		t.Errorf("MinDate = %v, want unset", raw.MinDate)
	}

	cs, err := workcal.Compose(raw, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if cs.Jurisdiction() != "GB" || !cs.CriticalPath() || cs.ExcludeWeekends() {
		t.Errorf("composed set = %s/%v/%v", cs.Jurisdiction(), cs.CriticalPath(), cs.ExcludeWeekends())
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "defaults",
			cfg:  Config{},
		},
		{
			name:    "unknown preset",
			cfg:     Config{Calendar: CalendarConfig{Preset: "night"}},
			wantErr: "calendar.preset",
		},
		{
			name:    "unknown mode",
			cfg:     Config{Calendar: CalendarConfig{Mode: "multi"}},
			wantErr: "calendar.mode",
		},
		{
			name:    "bad date",
			cfg:     Config{Calendar: CalendarConfig{MinDate: "tomorrow"}},
			wantErr: "calendar.min_date",
		},
		{
			name:    "file source without file",
			cfg:     Config{Holidays: HolidaysConfig{Source: SourceFile}},
			wantErr: "holidays.file",
		},
		{
			name:    "production calendar without token",
			cfg:     Config{Holidays: HolidaysConfig{Source: SourceProductionCalendar, APIURL: "https://example.test"}},
			wantErr: "holidays.api_token",
		},
		{
			name:    "unknown source",
			cfg:     Config{Holidays: HolidaysConfig{Source: "oracle"}},
			wantErr: "holidays.source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetTimeout(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 10 * time.Second},
		{"3s", 3 * time.Second},
		{"soon", 10 * time.Second},
	}

	for _, tt := range tests {
		c := HolidaysConfig{Timeout: tt.value}
		if got := c.GetTimeout(); got != tt.want {
			t.Errorf("GetTimeout(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
