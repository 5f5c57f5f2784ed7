package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/pkg/utils"
)

// DisbursementGroup totals the disbursements of one day.
type DisbursementGroup struct {
	Date   domain.Date     `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

type DisbursementSummary struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Count         int             `json:"disbursementCount"`
	AverageAmount decimal.Decimal `json:"averageAmount"`
	GroupCount    int             `json:"groupCount"`
}

type DisbursementReport struct {
	Summary DisbursementSummary `json:"summary"`
	Rows    []DisbursementGroup `json:"rows"`
}

func (r *DisbursementReport) Metrics() []Metric {
	return []Metric{
		moneyMetric("Total Disbursed", r.Summary.TotalAmount),
		countMetric("Disbursement Count", r.Summary.Count),
		moneyMetric("Average Disbursement", r.Summary.AverageAmount),
	}
}

func (r *DisbursementReport) Payload() (any, any) { return r.Summary, r.Rows }

// DisbursementSummary groups the disbursements dated in rng by day, oldest first.
func (e *Engine) DisbursementSummary(ctx context.Context, rng domain.Range) (*DisbursementReport, error) {
	ds, err := e.src().Disbursements(ctx, rng)
	if err != nil {
		return nil, err
	}
	loans, err := e.ownedLoans(ctx, ds)
	if err != nil {
		return nil, err
	}

	rep := &DisbursementReport{Rows: []DisbursementGroup{}}
	byDate := make(map[domain.Date]int)
	for _, l := range loans {
		i, ok := byDate[l.Date]
		if !ok {
			i = len(rep.Rows)
			byDate[l.Date] = i
			rep.Rows = append(rep.Rows, DisbursementGroup{Date: l.Date})
		}
		rep.Rows[i].Amount = rep.Rows[i].Amount.Add(l.Amount)
		rep.Rows[i].Count++

		rep.Summary.TotalAmount = rep.Summary.TotalAmount.Add(l.Amount)
		rep.Summary.Count++
	}
	sortByDate(rep.Rows, func(g DisbursementGroup) domain.Date { return g.Date })

	rep.Summary.GroupCount = len(rep.Rows)
	rep.Summary.AverageAmount = utils.Average(rep.Summary.TotalAmount, rep.Summary.Count)
	return rep, nil
}
