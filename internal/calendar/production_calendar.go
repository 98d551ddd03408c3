package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ProductionCalendar fetches holidays from the production-calendar.ru API
type ProductionCalendar struct {
	apiURL     string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// productionCalendarResponse represents API response
type productionCalendarResponse struct {
	Status      string          `json:"status"`
	CountryCode string          `json:"country_code"`
	Days        json.RawMessage `json:"days"` // Can be array OR error string (guest token limitation)
}

// holidayTypeID is the type_id production-calendar.ru uses for public holidays
const holidayTypeID = 3

// calendarDay represents a single day in the calendar
type calendarDay struct {
	Date         string `json:"date"`
	TypeID       int    `json:"type_id"`
	TypeText     string `json:"type_text"`
	Note         string `json:"note,omitempty"`
	WorkingHours int    `json:"working_hours"`
}

// NewProductionCalendar creates a new ProductionCalendar instance
func NewProductionCalendar(apiURL, apiToken string, timeout time.Duration, logger *zap.Logger) *ProductionCalendar {
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	return &ProductionCalendar{
		apiURL:   strings.TrimRight(apiURL, "/"),
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchYear fetches all twelve months for the jurisdiction (country code)
func (pc *ProductionCalendar) FetchYear(ctx context.Context, jurisdiction string, year int) ([]Holiday, error) {
	j := NormalizeJurisdiction(jurisdiction)

	var holidays []Holiday
	for month := time.January; month <= time.December; month++ {
		monthHolidays, err := pc.fetchMonth(ctx, j, year, month)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, monthHolidays...)
	}

	pc.logger.Info("Year fetched from production calendar",
		zap.String("jurisdiction", j),
		zap.Int("year", year),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// fetchMonth fetches one month and keeps holiday days
func (pc *ProductionCalendar) fetchMonth(ctx context.Context, jurisdiction string, year int, month time.Month) ([]Holiday, error) {
	// Build URL: https://production-calendar.ru/get-period/{token}/{country}/{MM.YYYY}/json
	period := fmt.Sprintf("%02d.%d", month, year)
	url := fmt.Sprintf("%s/get-period/%s/%s/%s/json",
		pc.apiURL, pc.apiToken, strings.ToLower(jurisdiction), period)

	pc.logger.Debug("Fetching calendar data",
		zap.Int("year", year),
		zap.Int("month", int(month)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp productionCalendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if apiResp.Status != "ok" {
		return nil, fmt.Errorf("API returned status: %s", apiResp.Status)
	}

	return pc.parseDays(jurisdiction, apiResp.Days)
}

func (pc *ProductionCalendar) parseDays(jurisdiction string, raw json.RawMessage) ([]Holiday, error) {
	var days []calendarDay
	if err := json.Unmarshal(raw, &days); err != nil {
		// Days might be an error message string (guest token limitation)
		var errorMsg string
		if err2 := json.Unmarshal(raw, &errorMsg); err2 == nil {
			return nil, fmt.Errorf("API error: %s", errorMsg)
		}
		return nil, fmt.Errorf("failed to parse days: %w", err)
	}

	var holidays []Holiday
	for _, apiDay := range days {
		if apiDay.TypeID != holidayTypeID {
			continue
		}

		// Parse date (format: DD.MM.YYYY)
		date, err := time.Parse("02.01.2006", apiDay.Date)
		if err != nil {
			pc.logger.Warn("Failed to parse date",
				zap.String("date", apiDay.Date),
				zap.Error(err))
			continue
		}

		name := apiDay.Note
		if name == "" {
			name = apiDay.TypeText
		}
		holidays = append(holidays, Holiday{Date: date, Jurisdiction: jurisdiction, Name: name})
	}

	return holidays, nil
}
