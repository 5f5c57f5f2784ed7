// Package filter resolves the raw startDate/endDate query values into the
// concrete date range every report is evaluated against.
package filter

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/loan-reports/internal/domain"
)

// Query parameter names.
const (
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
	ParamUpcoming  = "upcoming"
)

// UpcomingVariant selects the lower bound of the upcoming schedule window.
type UpcomingVariant string

const (
	// UpcomingFromToday admits entries due strictly after today, up to the end date.
	UpcomingFromToday UpcomingVariant = "upcoming-from-today"
	// UpcomingInRange admits entries due anywhere in [start, end].
	UpcomingInRange UpcomingVariant = "upcoming-in-range"
)

var validate = validator.New()

// Filters holds the normalized filter values, nil when absent. They are
// echoed back to callers and used to build detail links.
type Filters struct {
	StartDate *domain.Date `json:"startDate"`
	EndDate   *domain.Date `json:"endDate"`
}

// Resolved pairs the user-facing filters with the concrete range.
type Resolved struct {
	Filters Filters
	Range   domain.Range
}

// Resolve parses both raw values independently. Anything that is not a valid
// YYYY-MM-DD calendar date is treated as absent; absent bounds become the
// far-past and far-future sentinels.
func Resolve(startRaw, endRaw string) Resolved {
	res := Resolved{
		Filters: Filters{
			StartDate: parseDate(startRaw),
			EndDate:   parseDate(endRaw),
		},
		Range: domain.Unbounded,
	}
	if res.Filters.StartDate != nil {
		res.Range.Start = *res.Filters.StartDate
	}
	if res.Filters.EndDate != nil {
		res.Range.End = *res.Filters.EndDate
	}
	return res
}

func parseDate(raw string) *domain.Date {
	if err := validate.Var(raw, "required,datetime=2006-01-02"); err != nil {
		return nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &d
}

// StartLabel is the display label for the period start.
func (f Filters) StartLabel() string {
	if f.StartDate == nil {
		return "Earliest available"
	}
	return f.StartDate.Display()
}

// EndLabel is the display label for the period end.
func (f Filters) EndLabel() string {
	if f.EndDate == nil {
		return "Latest available"
	}
	return f.EndDate.Display()
}

// Query is the validated form of a report request.
type Query struct {
	StartDate string          `validate:"omitempty"`
	EndDate   string          `validate:"omitempty"`
	Upcoming  UpcomingVariant `validate:"omitempty,oneof=upcoming-from-today upcoming-in-range"`
}

// ParseVariant normalizes the short forms accepted on the query string
// ("from-today", "in-range") and validates the result. An empty value
// yields fallback.
func ParseVariant(raw string, fallback UpcomingVariant) (UpcomingVariant, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return fallback, nil
	}
	if !strings.HasPrefix(raw, "upcoming-") {
		raw = "upcoming-" + raw
	}
	q := Query{Upcoming: UpcomingVariant(raw)}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.Upcoming, nil
}
