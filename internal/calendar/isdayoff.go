package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
)

// IsDayOffCalendar fetches public holidays from the isdayoff.ru API,
// falling back to xmlcalendar.ru yearly JSON when the API is unavailable.
// A non-working day that is not a Saturday or Sunday is reported as a holiday.
type IsDayOffCalendar struct {
	httpClient   *http.Client
	logger       *zap.Logger
	baseURL      string
	fallbackURL  string
	fallbackMu   sync.RWMutex
	fallbackData map[string]*xmlCalendarYear // "CC-YYYY" → calendar data
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year   int                `json:"year"`
	Months []xmlCalendarMonth `json:"months"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar instance.
// fallbackURL may contain {year} and {country} placeholders.
func NewIsDayOffCalendar(fallbackURL string, timeout time.Duration, logger *zap.Logger) *IsDayOffCalendar {
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	return &IsDayOffCalendar{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:       logger,
		baseURL:      isdayoffBaseURL,
		fallbackURL:  fallbackURL,
		fallbackData: make(map[string]*xmlCalendarYear),
	}
}

// WithBaseURL overrides the API base URL
func (c *IsDayOffCalendar) WithBaseURL(baseURL string) *IsDayOffCalendar {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// FetchYear returns the holidays of the jurisdiction for the year
func (c *IsDayOffCalendar) FetchYear(ctx context.Context, jurisdiction string, year int) ([]Holiday, error) {
	j := NormalizeJurisdiction(jurisdiction)

	holidays, err := c.fetchYearFromAPI(ctx, j, year)
	if err == nil {
		return holidays, nil
	}

	c.logger.Warn("Failed to fetch from API, trying fallback",
		zap.String("jurisdiction", j),
		zap.Int("year", year),
		zap.Error(err))

	holidays, fallbackErr := c.fetchYearFromFallback(ctx, j, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
	}

	c.logger.Info("Using fallback data",
		zap.String("jurisdiction", j),
		zap.Int("year", year))

	return holidays, nil
}

// fetchYearFromAPI fetches an entire year from isdayoff.ru bulk API
func (c *IsDayOffCalendar) fetchYearFromAPI(ctx context.Context, jurisdiction string, year int) ([]Holiday, error) {
	// https://isdayoff.ru/api/getdata?year=2025&cc=ru&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&cc=%s&pre=1",
		c.baseURL, year, strings.ToLower(jurisdiction))

	c.logger.Debug("Fetching year from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	holidays, err := c.parseBulkResponse(jurisdiction, year, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Year fetched from API",
		zap.String("jurisdiction", jurisdiction),
		zap.Int("year", year),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string, one code per day of the year:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened working day
func (c *IsDayOffCalendar) parseBulkResponse(jurisdiction string, year int, data string) ([]Holiday, error) {
	daysInYear := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()

	if len(data) != daysInYear {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInYear, len(data))
	}

	var holidays []Holiday
	for i, code := range data {
		date := time.Date(year, time.January, 1+i, 0, 0, 0, 0, time.UTC)

		switch code {
		case '0', '2':
		case '1':
			// Weekend holidays are indistinguishable from plain weekends here.
			if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
				continue
			}
			holidays = append(holidays, Holiday{Date: date, Jurisdiction: jurisdiction, Name: "day off"})
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return holidays, nil
}

// fetchYearFromFallback fetches the year from xmlcalendar.ru
func (c *IsDayOffCalendar) fetchYearFromFallback(ctx context.Context, jurisdiction string, year int) ([]Holiday, error) {
	key := fmt.Sprintf("%s-%d", jurisdiction, year)

	c.fallbackMu.RLock()
	yearData, exists := c.fallbackData[key]
	c.fallbackMu.RUnlock()

	if !exists {
		var err error
		yearData, err = c.downloadFallbackYear(ctx, jurisdiction, year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		c.fallbackMu.Lock()
		c.fallbackData[key] = yearData
		c.fallbackMu.Unlock()
	}

	var holidays []Holiday
	for i := range yearData.Months {
		month := yearData.Months[i]
		parsed, err := c.parseXMLCalendarMonth(jurisdiction, year, time.Month(month.Month), &month)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, parsed...)
	}

	return holidays, nil
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (c *IsDayOffCalendar) downloadFallbackYear(ctx context.Context, jurisdiction string, year int) (*xmlCalendarYear, error) {
	if c.fallbackURL == "" {
		return nil, fmt.Errorf("no fallback URL configured")
	}

	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))
	url = strings.ReplaceAll(url, "{country}", strings.ToLower(jurisdiction))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fallback data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback API returned status %d", resp.StatusCode)
	}

	var yearData xmlCalendarYear
	if err := json.NewDecoder(resp.Body).Decode(&yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}

	c.logger.Info("Fallback data downloaded",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)))

	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened working day, + = transferred day off, others = weekends/holidays
func (c *IsDayOffCalendar) parseXMLCalendarMonth(jurisdiction string, year int, month time.Month, xmlMonth *xmlCalendarMonth) ([]Holiday, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d in fallback data", month)
	}
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	var holidays []Holiday
	for _, part := range strings.Split(xmlMonth.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasSuffix(part, "*") {
			continue
		}

		name := "day off"
		dayStr := part
		if strings.HasSuffix(part, "+") {
			name = "transferred day off"
			dayStr = strings.TrimSuffix(part, "+")
		}

		day, err := strconv.Atoi(dayStr)
		if err != nil || day < 1 || day > daysInMonth {
			c.logger.Warn("Failed to parse day number",
				zap.String("part", part),
				zap.Error(err))
			continue
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// Same as the bulk API: a listed weekend day may or may not be a holiday.
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		holidays = append(holidays, Holiday{Date: date, Jurisdiction: jurisdiction, Name: name})
	}

	return holidays, nil
}
