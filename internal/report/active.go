package report

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/pkg/utils"
)

// ActiveLoanRow is one loan that is still open, with its repayment position.
type ActiveLoanRow struct {
	DisbursementID       int64           `json:"disbursementId"`
	ApplicationID        int64           `json:"applicationId"`
	BorrowerID           int64           `json:"borrowerId"`
	BorrowerUID          *string         `json:"borrowerUid"`
	BorrowerName         *string         `json:"borrowerName"`
	BorrowerPhone        *string         `json:"borrowerPhone"`
	BorrowerEmail        *string         `json:"borrowerEmail"`
	BorrowerAddress      *string         `json:"borrowerAddress"`
	AccountNumber        *string         `json:"accountNumber"`
	LoanDate             domain.Date     `json:"loanDate"`
	LoanAmount           decimal.Decimal `json:"loanAmount"`
	Tenure               *int            `json:"tenure"`
	Status               *string         `json:"status"`
	ApplicationStatus    *string         `json:"applicationStatus"`
	PrincipalRepaid      decimal.Decimal `json:"principalRepaid"`
	TotalPaid            decimal.Decimal `json:"totalPaid"`
	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal"`
	LastPaymentDate      domain.Date     `json:"lastPaymentDate"`
	DaysSinceLastPayment *int            `json:"daysSinceLastPayment"`
	LastPaymentLabel     string          `json:"lastPaymentLabel"`
	RecentPayment        bool            `json:"recentPayment"`
	ActiveStatus         bool            `json:"activeStatus"`
}

type ActiveLoanSummary struct {
	Count                   int             `json:"activeLoans"`
	TotalDisbursed          decimal.Decimal `json:"totalDisbursed"`
	TotalPrincipalRepaid    decimal.Decimal `json:"totalPrincipalRepaid"`
	TotalOutstanding        decimal.Decimal `json:"totalOutstanding"`
	AverageOutstanding      decimal.Decimal `json:"averageOutstanding"`
	RecentPaymentCount      int             `json:"recentPayments"`
	ActiveStatusCount       int             `json:"activeStatusCount"`
	OutstandingBalanceLoans int             `json:"outstandingBalanceLoans"`
}

type ActiveLoanReport struct {
	Summary ActiveLoanSummary `json:"summary"`
	Rows    []ActiveLoanRow   `json:"rows"`
}

func (r *ActiveLoanReport) Metrics() []Metric {
	return []Metric{
		countMetric("Active Loans", r.Summary.Count),
		moneyMetric("Total Disbursed", r.Summary.TotalDisbursed),
		moneyMetric("Principal Repaid", r.Summary.TotalPrincipalRepaid),
		moneyMetric("Outstanding Principal", r.Summary.TotalOutstanding),
		countMetric("Recent Payments", r.Summary.RecentPaymentCount),
	}
}

func (r *ActiveLoanReport) Payload() (any, any) { return r.Summary, r.Rows }

// Eligibility is the outcome of the active-loan gates for one loan.
type Eligibility struct {
	Closed           bool
	HasBalance       bool
	PaidInRange      bool
	ActiveStatus     bool
	DisbursedInRange bool
}

// Relevant is true when the loan has a balance, recent activity or an
// active/pending status.
func (g Eligibility) Relevant() bool {
	return g.HasBalance || g.PaidInRange || g.ActiveStatus
}

// InWindow is true when the loan was disbursed or paid in range, or still
// carries a balance whatever its dates.
func (g Eligibility) InWindow() bool {
	return g.DisbursedInRange || g.PaidInRange || g.HasBalance
}

// Active combines the gates: not closed, relevant and in the window.
func (g Eligibility) Active() bool {
	return !g.Closed && g.Relevant() && g.InWindow()
}

// ActiveLoans lists open loans whatever their disbursement date, largest
// outstanding balance first.
func (e *Engine) ActiveLoans(ctx context.Context, rng domain.Range) (*ActiveLoanReport, error) {
	ds, err := e.src().AllDisbursements(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := e.ownedLoans(ctx, ds)
	if err != nil {
		return nil, err
	}
	if err := e.index.LoadRepayments(ctx, loanIDs(loans)); err != nil {
		return nil, err
	}

	rep := &ActiveLoanReport{Rows: []ActiveLoanRow{}}
	for _, l := range loans {
		p := paidOf(e.index.Repayments(l.ID))
		outstanding := utils.FloorZero(l.Amount.Sub(p.principal))

		gate := Eligibility{
			Closed:           l.app.Closed(),
			HasBalance:       outstanding.IsPositive(),
			PaidInRange:      rng.Contains(p.last),
			ActiveStatus:     domain.IsActiveStatus(l.Status, l.app.LoanStatus),
			DisbursedInRange: rng.Contains(l.Date),
		}
		if !gate.Active() {
			continue
		}

		row := ActiveLoanRow{
			DisbursementID:       l.ID,
			ApplicationID:        l.app.ID,
			BorrowerID:           l.app.BorrowerID,
			AccountNumber:        firstNonEmpty(l.AccountNumber, l.app.AccountNumber),
			LoanDate:             l.Date,
			LoanAmount:           l.Amount,
			Tenure:               l.InstallmentCount,
			Status:               l.Status,
			ApplicationStatus:    l.app.LoanStatus,
			PrincipalRepaid:      p.principal,
			TotalPaid:            p.amount,
			OutstandingPrincipal: outstanding,
			LastPaymentDate:      p.last,
			LastPaymentLabel:     "—",
			RecentPayment:        gate.PaidInRange,
			ActiveStatus:         gate.ActiveStatus,
		}
		if b := l.borrower; b != nil {
			row.BorrowerUID = b.UID
			row.BorrowerName = b.Name
			row.BorrowerPhone = b.Phone
			row.BorrowerEmail = b.Email
			row.BorrowerAddress = b.Address
		}
		if p.last.Valid() {
			days := p.last.DaysUntil(e.today)
			row.DaysSinceLastPayment = &days
			row.LastPaymentLabel = utils.DaysAgoLabel(days)
		}
		rep.Rows = append(rep.Rows, row)

		s := &rep.Summary
		s.Count++
		s.TotalDisbursed = s.TotalDisbursed.Add(l.Amount)
		s.TotalPrincipalRepaid = s.TotalPrincipalRepaid.Add(p.principal)
		s.TotalOutstanding = s.TotalOutstanding.Add(outstanding)
		if gate.PaidInRange {
			s.RecentPaymentCount++
		}
		if gate.ActiveStatus {
			s.ActiveStatusCount++
		}
		if gate.HasBalance {
			s.OutstandingBalanceLoans++
		}
	}
	rep.Summary.AverageOutstanding = utils.Average(rep.Summary.TotalOutstanding, rep.Summary.Count)

	slices.SortStableFunc(rep.Rows, func(a, b ActiveLoanRow) int {
		if c := b.OutstandingPrincipal.Cmp(a.OutstandingPrincipal); c != 0 {
			return c
		}
		if c := cmp.Compare(lastActivity(b), lastActivity(a)); c != 0 {
			return c
		}
		return cmp.Compare(b.DisbursementID, a.DisbursementID)
	})
	return rep, nil
}

func lastActivity(r ActiveLoanRow) domain.Date {
	if r.LastPaymentDate.Valid() {
		return r.LastPaymentDate
	}
	return r.LoanDate
}
