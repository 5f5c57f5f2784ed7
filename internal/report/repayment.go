package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-reports/internal/domain"
)

// RepaymentGroup totals the repayments received on one day.
type RepaymentGroup struct {
	Date      domain.Date     `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Count     int             `json:"count"`
}

type RepaymentSummary struct {
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalPrincipal decimal.Decimal `json:"totalPrincipal"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	Count          int             `json:"repaymentCount"`
}

type RepaymentReport struct {
	Summary RepaymentSummary `json:"summary"`
	Rows    []RepaymentGroup `json:"rows"`
}

func (r *RepaymentReport) Metrics() []Metric {
	return []Metric{
		moneyMetric("Total Repaid", r.Summary.TotalAmount),
		moneyMetric("Principal Repaid", r.Summary.TotalPrincipal),
		moneyMetric("Interest Repaid", r.Summary.TotalInterest),
		countMetric("Repayment Count", r.Summary.Count),
	}
}

func (r *RepaymentReport) Payload() (any, any) { return r.Summary, r.Rows }

// RepaymentPerformance groups the repayments received in rng by day. Deleted
// and dishonoured repayments are left out entirely.
func (e *Engine) RepaymentPerformance(ctx context.Context, rng domain.Range) (*RepaymentReport, error) {
	reps, err := e.src().Repayments(ctx, rng)
	if err != nil {
		return nil, err
	}

	rep := &RepaymentReport{Rows: []RepaymentGroup{}}
	byDate := make(map[domain.Date]int)
	for i := range reps {
		r := &reps[i]
		if !r.Counts() {
			continue
		}
		j, ok := byDate[r.Date]
		if !ok {
			j = len(rep.Rows)
			byDate[r.Date] = j
			rep.Rows = append(rep.Rows, RepaymentGroup{Date: r.Date})
		}
		g := &rep.Rows[j]
		g.Amount = g.Amount.Add(r.Amount)
		g.Principal = g.Principal.Add(r.Principal)
		g.Interest = g.Interest.Add(r.Interest)
		g.Count++

		rep.Summary.TotalAmount = rep.Summary.TotalAmount.Add(r.Amount)
		rep.Summary.TotalPrincipal = rep.Summary.TotalPrincipal.Add(r.Principal)
		rep.Summary.TotalInterest = rep.Summary.TotalInterest.Add(r.Interest)
		rep.Summary.Count++
	}
	sortByDate(rep.Rows, func(g RepaymentGroup) domain.Date { return g.Date })
	return rep, nil
}
