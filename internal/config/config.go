package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/username/worksite-calendar/internal/workcal"
	"github.com/username/worksite-calendar/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	State    StateConfig    `mapstructure:"state"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig holds the constraint inputs. Unset optional fields fall back to the preset.
type CalendarConfig struct {
	Preset          string   `mapstructure:"preset"`
	Jurisdiction    string   `mapstructure:"jurisdiction"`
	ExcludeWeekends *bool    `mapstructure:"exclude_weekends"`
	ExcludeHolidays *bool    `mapstructure:"exclude_holidays"`
	CriticalPath    *bool    `mapstructure:"critical_path"`
	Mode            string   `mapstructure:"mode"` // "single" or "range"
	MinDate         string   `mapstructure:"min_date"`
	MaxDate         string   `mapstructure:"max_date"`
	ProjectStart    string   `mapstructure:"project_start"`
	ProjectEnd      string   `mapstructure:"project_end"`
	BlockedDates    []string `mapstructure:"blocked_dates"`
	BlockedRules    []string `mapstructure:"blocked_rules"` // RRULE or "every friday"
	WeatherDates    []string `mapstructure:"weather_dates"`
}

// HolidaysConfig selects where holiday data comes from
type HolidaysConfig struct {
	Source      string `mapstructure:"source"` // builtin, file, isdayoff, production-calendar
	File        string `mapstructure:"file"`
	BaseURL     string `mapstructure:"base_url"`     // isdayoff.ru API root
	FallbackURL string `mapstructure:"fallback_url"` // xmlcalendar.ru template
	APIURL      string `mapstructure:"api_url"`
	APIToken    string `mapstructure:"api_token"`
	CacheTTL    string `mapstructure:"cache_ttl"`
	Timeout     string `mapstructure:"timeout"`
	Retries     int    `mapstructure:"retries"`

	// Jurisdictions served by a file or remote source; everything else uses the built-in calendars
	Jurisdictions []string `mapstructure:"jurisdictions"`
}

// StateConfig represents state storage configuration
type StateConfig struct {
	SelectionFile string `mapstructure:"selection_file"`
}

// LogConfig controls the CLI logger
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Holiday source names
const (
	SourceBuiltin            = "builtin"
	SourceFile               = "file"
	SourceIsDayOff           = "isdayoff"
	SourceProductionCalendar = "production-calendar"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.preset", workcal.PresetStandard.Name)
	v.SetDefault("calendar.mode", "single")
	v.SetDefault("holidays.source", SourceBuiltin)
	v.SetDefault("holidays.fallback_url", "https://xmlcalendar.ru/data/{country}/{year}/calendar.json")
	v.SetDefault("holidays.cache_ttl", "24h")
	v.SetDefault("holidays.timeout", "10s")
	v.SetDefault("holidays.retries", 3)
	v.SetDefault("state.selection_file", ".worksite-calendar-selection.json")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. Without an explicit path a missing
// config file is not an error: defaults and WORKSITE_* env vars apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.worksite-calendar")
		v.AddConfigPath("/etc/worksite-calendar")
	}

	v.SetEnvPrefix("WORKSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// YAML decodes unquoted dates as time.Time; the config keeps them as day strings.
func timeToDayString(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if tm, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return dateutil.Key(tm), nil
	}
	return data, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		timeToDayString,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := workcal.LookupPreset(c.Calendar.Preset); err != nil {
		return fmt.Errorf("calendar.preset: %w", err)
	}
	if _, err := workcal.ParseMode(c.Calendar.Mode); err != nil {
		return fmt.Errorf("calendar.mode: %w", err)
	}
	if _, err := c.Calendar.Raw(); err != nil {
		return err
	}

	source := c.Holidays.Source
	if source == "" {
		source = SourceBuiltin
	}

	switch source {
	case SourceBuiltin:
	case SourceFile:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	case SourceIsDayOff:
		if c.Holidays.FallbackURL == "" {
			return fmt.Errorf("holidays.fallback_url is required for isdayoff source")
		}
	case SourceProductionCalendar:
		if c.Holidays.APIURL == "" {
			return fmt.Errorf("holidays.api_url is required for production-calendar source")
		}
		if c.Holidays.APIToken == "" {
			return fmt.Errorf("holidays.api_token is required for production-calendar source")
		}
	default:
		return fmt.Errorf("holidays.source must be one of builtin, file, isdayoff, production-calendar, got '%s'", source)
	}

	if c.Holidays.Retries < 0 {
		return fmt.Errorf("holidays.retries must not be negative")
	}

	return nil
}

// Raw converts the calendar section into constraint inputs
func (c *CalendarConfig) Raw() (workcal.RawConstraints, error) {
	raw := workcal.RawConstraints{
		Preset:          c.Preset,
		ExcludeWeekends: c.ExcludeWeekends,
		ExcludeHolidays: c.ExcludeHolidays,
		BlockedRules:    c.BlockedRules,
		CriticalPath:    c.CriticalPath,
	}
	if c.Jurisdiction != "" {
		j := c.Jurisdiction
		raw.Jurisdiction = &j
	}

	var err error
	if raw.BlockedDates, err = parseDates("calendar.blocked_dates", c.BlockedDates); err != nil {
		return raw, err
	}
	if raw.WeatherRestrictionDates, err = parseDates("calendar.weather_dates", c.WeatherDates); err != nil {
		return raw, err
	}

	bounds := []struct {
		key   string
		value string
		dst   **time.Time
	}{
		{"calendar.min_date", c.MinDate, &raw.MinDate},
		{"calendar.max_date", c.MaxDate, &raw.MaxDate},
		{"calendar.project_start", c.ProjectStart, &raw.ProjectStartDate},
		{"calendar.project_end", c.ProjectEnd, &raw.ProjectEndDate},
	}
	for _, b := range bounds {
		if b.value == "" {
			continue
		}
		d, err := dateutil.ParseDate(b.value)
		if err != nil {
			return raw, fmt.Errorf("%s: %w", b.key, err)
		}
		*b.dst = &d
	}

	return raw, nil
}

func parseDates(key string, values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, s := range values {
		d, err := dateutil.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetTimeout returns the HTTP timeout for remote sources
func (c *HolidaysConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.APIToken = os.ExpandEnv(c.Holidays.APIToken)
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.State.SelectionFile = os.ExpandEnv(c.State.SelectionFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
