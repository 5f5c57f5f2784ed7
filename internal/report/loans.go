package report

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/pkg/utils"
)

// LoanRow is one disbursement with its repayment position and borrower record.
type LoanRow struct {
	DisbursementID       int64               `json:"disbursementId"`
	ApplicationID        int64               `json:"applicationId"`
	BorrowerID           int64               `json:"borrowerId"`
	UID                  *string             `json:"uid"`
	Name                 *string             `json:"name"`
	Gender               *string             `json:"gender"`
	DOB                  domain.Date         `json:"dob"`
	AnnualIncome         decimal.NullDecimal `json:"annualIncome"`
	Block                *string             `json:"block"`
	Street               *string             `json:"street"`
	Unit                 *string             `json:"unit"`
	Building             *string             `json:"building"`
	PostalCode           *string             `json:"postalCode"`
	Address              *string             `json:"address"`
	Email                *string             `json:"email"`
	Phone                *string             `json:"phone"`
	FullAddress          string              `json:"fullAddress"`
	AccountNumber        *string             `json:"accountNumber"`
	LoanDate             domain.Date         `json:"loanDate"`
	LoanAmount           decimal.Decimal     `json:"loanAmount"`
	Remarks              *string             `json:"remarks"`
	Status               *string             `json:"status"`
	Tenure               *int                `json:"tenure"`
	PaidPrincipal        decimal.Decimal     `json:"paidPrincipal"`
	OutstandingPrincipal decimal.Decimal     `json:"outstandingPrincipal"`
	OutstandingInterest  decimal.Decimal     `json:"outstandingInterest"`
	InterestCollected    decimal.Decimal     `json:"interestCollected"`
	FeesCollected        decimal.Decimal     `json:"feesCollected"`
	Profit               decimal.Decimal     `json:"profit"`
	LastPaidDate         domain.Date         `json:"lastPaidDate"`
}

type LoanSummary struct {
	LoanCount                 int             `json:"loanCount"`
	UniqueBorrowers           int             `json:"uniqueBorrowers"`
	TotalAmount               decimal.Decimal `json:"totalAmount"`
	TotalPaidPrincipal        decimal.Decimal `json:"totalPaidPrincipal"`
	TotalOutstandingPrincipal decimal.Decimal `json:"totalOutstandingPrincipal"`
	TotalOutstandingInterest  decimal.Decimal `json:"totalOutstandingInterest"`
	TotalInterestCollected    decimal.Decimal `json:"totalInterestCollected"`
	TotalProfit               decimal.Decimal `json:"totalProfit"`
}

type LoanReport struct {
	Summary LoanSummary `json:"summary"`
	Rows    []LoanRow   `json:"rows"`
}

func (r *LoanReport) Metrics() []Metric {
	return []Metric{
		countMetric("Loan Count", r.Summary.LoanCount),
		countMetric("Unique Borrowers", r.Summary.UniqueBorrowers),
		moneyMetric("Total Loan Amount", r.Summary.TotalAmount),
	}
}

func (r *LoanReport) Payload() (any, any) { return r.Summary, r.Rows }

// AllLoans lists every disbursement dated in rng whose application is live,
// newest first.
func (e *Engine) AllLoans(ctx context.Context, rng domain.Range) (*LoanReport, error) {
	ds, err := e.src().Disbursements(ctx, rng)
	if err != nil {
		return nil, err
	}
	loans, err := e.ownedLoans(ctx, ds)
	if err != nil {
		return nil, err
	}
	ids := loanIDs(loans)
	if err := e.index.LoadRepayments(ctx, ids); err != nil {
		return nil, err
	}
	if err := e.index.LoadSchedules(ctx, ids); err != nil {
		return nil, err
	}

	rep := &LoanReport{Rows: make([]LoanRow, 0, len(loans))}
	borrowers := make(map[string]bool)
	for _, l := range loans {
		p := paidOf(e.index.Repayments(l.ID))

		scheduledInterest := decimal.Zero
		for _, s := range e.index.Schedules(l.ID) {
			if !s.Deleted {
				scheduledInterest = scheduledInterest.Add(s.Interest)
			}
		}

		row := LoanRow{
			DisbursementID:       l.ID,
			ApplicationID:        l.app.ID,
			BorrowerID:           l.app.BorrowerID,
			AccountNumber:        firstNonEmpty(l.AccountNumber, l.app.AccountNumber),
			LoanDate:             l.Date,
			LoanAmount:           l.Amount,
			Remarks:              l.Remarks,
			Status:               l.Status,
			Tenure:               l.InstallmentCount,
			PaidPrincipal:        p.principal,
			OutstandingPrincipal: utils.FloorZero(l.Amount.Sub(p.principal)),
			OutstandingInterest:  scheduledInterest.Sub(p.interest),
			InterestCollected:    p.interest,
			FeesCollected:        p.fees,
			Profit:               p.amount.Sub(l.Amount),
			LastPaidDate:         p.last,
		}
		var uid *string
		if b := l.borrower; b != nil {
			uid = b.UID
			row.UID = b.UID
			row.Name = b.Name
			row.Gender = b.Gender
			row.DOB = b.DOB
			row.AnnualIncome = b.AnnualIncome
			row.Block = b.Block
			row.Street = b.Street
			row.Unit = b.Unit
			row.Building = b.Building
			row.PostalCode = b.PostalCode
			row.Address = b.Address
			row.Email = b.Email
			row.Phone = b.Phone
			row.FullAddress = FullAddress(b)
		}
		rep.Rows = append(rep.Rows, row)

		if key := domain.BorrowerKey(uid, l.app.BorrowerID); key != "" {
			borrowers[key] = true
		}
		s := &rep.Summary
		s.LoanCount++
		s.TotalAmount = s.TotalAmount.Add(row.LoanAmount)
		s.TotalPaidPrincipal = s.TotalPaidPrincipal.Add(row.PaidPrincipal)
		s.TotalOutstandingPrincipal = s.TotalOutstandingPrincipal.Add(row.OutstandingPrincipal)
		s.TotalOutstandingInterest = s.TotalOutstandingInterest.Add(row.OutstandingInterest)
		s.TotalInterestCollected = s.TotalInterestCollected.Add(row.InterestCollected)
		s.TotalProfit = s.TotalProfit.Add(row.Profit)
	}
	rep.Summary.UniqueBorrowers = len(borrowers)

	slices.SortStableFunc(rep.Rows, func(a, b LoanRow) int {
		if c := cmp.Compare(b.LoanDate, a.LoanDate); c != 0 {
			return c
		}
		return cmp.Compare(b.DisbursementID, a.DisbursementID)
	})
	return rep, nil
}

// FullAddress joins the populated address parts as
// "Blk 123, Serangoon Ave 3, #05-12, Golden Court, 123 Serangoon Ave 3, Postal 550123".
func FullAddress(b *domain.Borrower) string {
	if b == nil {
		return ""
	}
	var parts []string
	add := func(prefix string, v *string) {
		if s := strings.TrimSpace(strOrEmpty(v)); s != "" {
			parts = append(parts, prefix+s)
		}
	}
	add("Blk ", b.Block)
	add("", b.Street)
	add("#", b.Unit)
	add("", b.Building)
	add("", b.Address)
	add("Postal ", b.PostalCode)
	return strings.Join(parts, ", ")
}
