package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar implements Source with fallback strategy
// Primary: remote API
// Fallback: FileCalendar (local file) or a second API
type CompositeCalendar struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Source, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchYear tries the primary source, then the fallback
func (cc *CompositeCalendar) FetchYear(ctx context.Context, jurisdiction string, year int) ([]Holiday, error) {
	holidays, err := cc.primary.FetchYear(ctx, jurisdiction, year)
	if err == nil {
		return holidays, nil
	}
	if cc.fallback == nil {
		return nil, err
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.String("jurisdiction", jurisdiction),
		zap.Int("year", year),
		zap.Error(err))

	holidays, fallbackErr := cc.fallback.FetchYear(ctx, jurisdiction, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return holidays, nil
}

// Router dispatches holiday checks to a lookup per jurisdiction.
// Jurisdictions without a route go to the fallback lookup.
type Router struct {
	routes   map[string]HolidayLookup
	fallback HolidayLookup
}

// NewRouter creates a Router. A nil fallback means no holidays.
func NewRouter(fallback HolidayLookup) *Router {
	if fallback == nil {
		fallback = NoHolidays
	}
	return &Router{
		routes:   make(map[string]HolidayLookup),
		fallback: fallback,
	}
}

// Route returns a copy of the router with the jurisdiction routed to lookup
func (r *Router) Route(jurisdiction string, lookup HolidayLookup) *Router {
	next := &Router{
		routes:   make(map[string]HolidayLookup, len(r.routes)+1),
		fallback: r.fallback,
	}
	for j, l := range r.routes {
		next.routes[j] = l
	}
	next.routes[NormalizeJurisdiction(jurisdiction)] = lookup
	return next
}

// IsHoliday delegates to the jurisdiction's lookup
func (r *Router) IsHoliday(date time.Time, jurisdiction string) bool {
	if l, ok := r.routes[NormalizeJurisdiction(jurisdiction)]; ok {
		return l.IsHoliday(date, jurisdiction)
	}
	return r.fallback.IsHoliday(date, jurisdiction)
}
