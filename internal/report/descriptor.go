package report

import (
	"context"
	"net/url"
	"strings"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/filter"
	customError "github.com/segyhp/loan-reports/pkg/errors"
)

// Report identifiers, in catalogue order.
const (
	DisbursementSummaryID  = "loan-disbursement-summary"
	RepaymentPerformanceID = "repayment-performance"
	UpcomingScheduleID     = "upcoming-payment-schedule"
	AllLoansID             = "all-loans-report"
	ActiveLoansID          = "active-loans-report"
	BorrowerListID         = "borrower-list"
)

// BasePath prefixes every detail-page URL.
const BasePath = "/reports/"

// Descriptor is the catalogue card of one report.
type Descriptor struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	URL              string   `json:"url"`
	OpenInNewTab     bool     `json:"openInNewTab"`
	Metrics          []Metric `json:"metrics"`
	SuggestedFilters []string `json:"suggestedFilters"`
}

// Definition describes one catalogue entry and how to compute it.
type Definition struct {
	ID          string
	Name        string
	Description string
	run         func(e *Engine, ctx context.Context, rng domain.Range) (Result, error)
}

var catalogue = []Definition{
	{
		ID:          DisbursementSummaryID,
		Name:        "Loan Disbursement Summary",
		Description: "Overview of disbursement activity within the selected period.",
		run: func(e *Engine, ctx context.Context, rng domain.Range) (Result, error) {
			return e.DisbursementSummary(ctx, rng)
		},
	},
	{
		ID:          RepaymentPerformanceID,
		Name:        "Repayment Performance",
		Description: "Payments received from borrowers across the selected period.",
		run: func(e *Engine, ctx context.Context, rng domain.Range) (Result, error) {
			return e.RepaymentPerformance(ctx, rng)
		},
	},
	{
		ID:          UpcomingScheduleID,
		Name:        "Upcoming Payment Schedule",
		Description: "Payments scheduled after today up to the selected end date.",
		run: func(e *Engine, ctx context.Context, rng domain.Range) (Result, error) {
			return e.UpcomingSchedule(ctx, rng)
		},
	},
	{
		ID:          AllLoansID,
		Name:        "All Loans Report",
		Description: "Comprehensive view of loans with borrower contact information.",
		run: func(e *Engine, ctx context.Context, rng domain.Range) (Result, error) {
			return e.AllLoans(ctx, rng)
		},
	},
	{
		ID:          ActiveLoansID,
		Name:        "Active Loans Report",
		Description: "Loans with outstanding balances or recent repayment activity, including borrower contact details.",
		run: func(e *Engine, ctx context.Context, rng domain.Range) (Result, error) {
			return e.ActiveLoans(ctx, rng)
		},
	},
	{
		ID:          BorrowerListID,
		Name:        "Borrower List",
		Description: "Master borrower directory with loan totals for the selected period.",
		run: func(e *Engine, ctx context.Context, rng domain.Range) (Result, error) {
			return e.BorrowerList(ctx, rng)
		},
	},
}

const inRangeDescription = "Payments scheduled within the selected period."

// Definitions returns the catalogue in display order.
func Definitions() []Definition {
	return append([]Definition(nil), catalogue...)
}

// Lookup returns the definition for id.
func Lookup(id string) (Definition, error) {
	for _, def := range catalogue {
		if def.ID == id {
			return def, nil
		}
	}
	return Definition{}, customError.WrapUnknownReport(id)
}

// Run computes the report for rng.
func (d Definition) Run(ctx context.Context, e *Engine, rng domain.Range) (Result, error) {
	return d.run(e, ctx, rng)
}

// Describe assembles the catalogue card for a computed result.
func (e *Engine) Describe(def Definition, res Result, f filter.Filters) Descriptor {
	desc := Descriptor{
		ID:               def.ID,
		Name:             def.Name,
		Description:      def.Description,
		URL:              e.DetailURL(def.ID, f),
		OpenInNewTab:     true,
		Metrics:          res.Metrics(),
		SuggestedFilters: []string{filter.ParamStartDate, filter.ParamEndDate},
	}
	if def.ID == UpcomingScheduleID {
		if e.variant == filter.UpcomingInRange {
			desc.Description = inRangeDescription
		} else {
			desc.SuggestedFilters = []string{filter.ParamEndDate}
		}
	}
	return desc
}

// DetailURL builds the detail-page link for a report, carrying only the
// filters that are set.
func (e *Engine) DetailURL(id string, f filter.Filters) string {
	var params []string
	if f.StartDate != nil {
		params = append(params, filter.ParamStartDate+"="+url.QueryEscape(f.StartDate.String()))
	}
	if f.EndDate != nil {
		params = append(params, filter.ParamEndDate+"="+url.QueryEscape(f.EndDate.String()))
	}
	if id == UpcomingScheduleID && e.variant == filter.UpcomingInRange {
		params = append(params, filter.ParamUpcoming+"=in-range")
	}

	u := BasePath + id
	if len(params) > 0 {
		u += "?" + strings.Join(params, "&")
	}
	return u
}

// Catalogue computes every report for the resolved filters, in catalogue
// order. The first error aborts the whole catalogue.
func (e *Engine) Catalogue(ctx context.Context, res filter.Resolved) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(catalogue))
	for _, def := range catalogue {
		r, err := e.run(ctx, def, res.Range)
		if err != nil {
			return nil, err
		}
		out = append(out, e.Describe(def, r, res.Filters))
	}
	return out, nil
}

// Meta carries the display labels of a detail page.
type Meta struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	PeriodStart string      `json:"periodStart"`
	PeriodEnd   string      `json:"periodEnd"`
	Today       domain.Date `json:"today"`
	RowCount    int         `json:"rowCount"`
}

// Detail is the full-page view of one report.
type Detail struct {
	Descriptor Descriptor `json:"descriptor"`
	Meta       Meta       `json:"meta"`
	Summary    any        `json:"summary"`
	Rows       any        `json:"rows"`
}

// Detail computes one report with its rows.
func (e *Engine) Detail(ctx context.Context, id string, res filter.Resolved) (*Detail, error) {
	def, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	r, err := e.run(ctx, def, res.Range)
	if err != nil {
		return nil, err
	}
	summary, rows := r.Payload()
	desc := e.Describe(def, r, res.Filters)
	return &Detail{
		Descriptor: desc,
		Meta: Meta{
			Title:       def.Name,
			Subtitle:    desc.Description,
			PeriodStart: res.Filters.StartLabel(),
			PeriodEnd:   res.Filters.EndLabel(),
			Today:       e.today,
			RowCount:    rowCount(rows),
		},
		Summary: summary,
		Rows:    rows,
	}, nil
}

func rowCount(rows any) int {
	switch r := rows.(type) {
	case []DisbursementGroup:
		return len(r)
	case []RepaymentGroup:
		return len(r)
	case []UpcomingRow:
		return len(r)
	case []LoanRow:
		return len(r)
	case []ActiveLoanRow:
		return len(r)
	case []BorrowerRow:
		return len(r)
	}
	return 0
}
