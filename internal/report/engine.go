// Package report turns raw portfolio rows into the report catalogue. Every
// rule is evaluated here, over rows from either the live store or the static
// dataset, so both sources yield the same reports.
package report

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/filter"
	"github.com/segyhp/loan-reports/internal/repository"
	"github.com/segyhp/loan-reports/pkg/utils"
)

// Result is the outcome of one aggregator.
type Result interface {
	// Metrics returns the scalar figures shown on the catalogue card
	Metrics() []Metric

	// Payload returns the detail-page summary and rows
	Payload() (summary any, rows any)
}

// Options configure an Engine.
type Options struct {
	// Today is the evaluation date; defaults to the current local date
	Today domain.Date

	// Upcoming selects the upcoming schedule window; defaults to UpcomingFromToday
	Upcoming filter.UpcomingVariant

	// Observe, when set, is called after each report is computed
	Observe func(reportID string, elapsed time.Duration, err error)
}

// Engine evaluates reports for one request against a single source.
type Engine struct {
	index   *Index
	today   domain.Date
	variant filter.UpcomingVariant
	observe func(string, time.Duration, error)
}

// NewEngine returns an Engine reading from src.
func NewEngine(src repository.ReportSource, opts Options) *Engine {
	if !opts.Today.Valid() {
		opts.Today = domain.DateOf(time.Now())
	}
	if opts.Upcoming == "" {
		opts.Upcoming = filter.UpcomingFromToday
	}
	return &Engine{
		index:   NewIndex(src),
		today:   opts.Today,
		variant: opts.Upcoming,
		observe: opts.Observe,
	}
}

// Source names the row source in use.
func (e *Engine) Source() string {
	return e.index.Source().Name()
}

// Today returns the evaluation date.
func (e *Engine) Today() domain.Date {
	return e.today
}

// Variant returns the upcoming window variant.
func (e *Engine) Variant() filter.UpcomingVariant {
	return e.variant
}

func (e *Engine) src() repository.ReportSource {
	return e.index.Source()
}

func (e *Engine) run(ctx context.Context, def Definition, rng domain.Range) (Result, error) {
	if e.observe == nil {
		return def.Run(ctx, e, rng)
	}
	start := time.Now()
	r, err := def.Run(ctx, e, rng)
	e.observe(def.ID, time.Since(start), err)
	return r, err
}

// loan is a disbursement with its resolved owners.
type loan struct {
	domain.Disbursement
	app      *domain.Application
	borrower *domain.Borrower
}

// ownedLoans resolves owners and keeps only disbursements whose application
// exists and is not deleted.
func (e *Engine) ownedLoans(ctx context.Context, ds []domain.Disbursement) ([]loan, error) {
	if err := e.index.LoadOwners(ctx, ds); err != nil {
		return nil, err
	}
	out := make([]loan, 0, len(ds))
	for _, d := range ds {
		app, borrower := e.index.Owner(d)
		if app == nil || app.Deleted {
			continue
		}
		out = append(out, loan{Disbursement: d, app: app, borrower: borrower})
	}
	return out, nil
}

func loanIDs(loans []loan) []int64 {
	ids := make([]int64, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	return ids
}

// paid totals the repayments that count towards a loan.
type paid struct {
	principal decimal.Decimal
	interest  decimal.Decimal
	amount    decimal.Decimal
	fees      decimal.Decimal
	last      domain.Date
}

func paidOf(reps []domain.Repayment) paid {
	var p paid
	for i := range reps {
		r := &reps[i]
		if !r.Counts() {
			continue
		}
		p.principal = p.principal.Add(r.Principal)
		p.interest = p.interest.Add(r.Interest)
		p.amount = p.amount.Add(r.Amount)
		p.fees = p.fees.Add(r.Fees())
		if r.Date.After(p.last) {
			p.last = r.Date
		}
	}
	return p
}

// sortByDate orders rows by ascending date, keeping the order of equal dates.
func sortByDate[T any](rows []T, dateOf func(T) domain.Date) {
	slices.SortStableFunc(rows, func(a, b T) int {
		return cmp.Compare(dateOf(a), dateOf(b))
	})
}

// Metric is one scalar figure on a catalogue card.
type Metric struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

func moneyMetric(label string, amount decimal.Decimal) Metric {
	return Metric{Label: label, Value: utils.ToFloat(amount), Formatted: utils.FormatMoney(amount)}
}

func countMetric(label string, n int) Metric {
	return Metric{Label: label, Value: float64(n), Formatted: utils.FormatCount(n)}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
