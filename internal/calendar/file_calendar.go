package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileCalendar loads holidays from a local text file
//
// Format, one holiday per line:
//
//	YYYY-MM-DD JURISDICTION [note]
//	2025-07-04 US Independence Day
//
// Blank lines and lines starting with # are ignored.
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
	}
}

// Load reads the file into a Table
func (fc *FileCalendar) Load() (*Table, error) {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	table, err := fc.parse(file)
	if err != nil {
		return nil, err
	}

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("holidays", table.Len()))

	return table, nil
}

// FetchYear returns the file's holidays for the jurisdiction and year.
// Lets a file act as the fallback of a remote source.
func (fc *FileCalendar) FetchYear(_ context.Context, jurisdiction string, year int) ([]Holiday, error) {
	table, err := fc.Load()
	if err != nil {
		return nil, err
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	holidays := table.Holidays(jurisdiction, from, to)
	if len(holidays) == 0 {
		return nil, fmt.Errorf("no holidays for %s %d in %s", jurisdiction, year, fc.filePath)
	}
	return holidays, nil
}

func (fc *FileCalendar) parse(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	var holidays []Holiday

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		holidays = append(holidays, Holiday{
			Date:         date,
			Jurisdiction: parts[1],
			Name:         strings.Join(parts[2:], " "),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading calendar file: %w", err)
	}

	return NewTable(holidays...), nil
}
