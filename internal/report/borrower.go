package report

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-reports/internal/domain"
)

// BorrowerRow is one distinct borrower with their loan totals for the period.
type BorrowerRow struct {
	BorrowerID      int64               `json:"borrowerId"`
	UID             *string             `json:"uid"`
	Name            *string             `json:"name"`
	Gender          *string             `json:"gender"`
	DOB             domain.Date         `json:"dob"`
	AnnualIncome    decimal.NullDecimal `json:"annualIncome"`
	Block           *string             `json:"block"`
	Street          *string             `json:"street"`
	Unit            *string             `json:"unit"`
	Building        *string             `json:"building"`
	PostalCode      *string             `json:"postalCode"`
	Address         *string             `json:"address"`
	Email           *string             `json:"email"`
	Phone           *string             `json:"phone"`
	FullAddress     string              `json:"fullAddress"`
	LoanCount       int                 `json:"loanCount"`
	TotalLoanAmount decimal.Decimal     `json:"totalLoanAmount"`
	FirstLoanDate   domain.Date         `json:"firstLoanDate"`
	LastLoanDate    domain.Date         `json:"lastLoanDate"`
}

type BorrowerSummary struct {
	BorrowerCount   int             `json:"borrowerCount"`
	TotalLoanAmount decimal.Decimal `json:"totalLoanAmount"`
	TotalLoans      int             `json:"totalLoans"`
}

type BorrowerReport struct {
	Summary BorrowerSummary `json:"summary"`
	Rows    []BorrowerRow   `json:"rows"`
}

func (r *BorrowerReport) Metrics() []Metric {
	return []Metric{
		countMetric("Borrowers", r.Summary.BorrowerCount),
		moneyMetric("Total Loan Amount", r.Summary.TotalLoanAmount),
		countMetric("Total Loans", r.Summary.TotalLoans),
	}
}

func (r *BorrowerReport) Payload() (any, any) { return r.Summary, r.Rows }

// BorrowerList returns each borrower with at least one live loan dated in
// rng once, keyed by uid and falling back to id. When several borrower
// records share a uid the lowest id supplies the details. Sorted by name,
// then id.
func (e *Engine) BorrowerList(ctx context.Context, rng domain.Range) (*BorrowerReport, error) {
	ds, err := e.src().Disbursements(ctx, rng)
	if err != nil {
		return nil, err
	}
	loans, err := e.ownedLoans(ctx, ds)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*BorrowerRow)
	var order []string
	for _, l := range loans {
		b := l.borrower
		if b == nil {
			continue
		}
		key := domain.BorrowerKey(b.UID, b.ID)
		row, ok := rows[key]
		if !ok {
			row = &BorrowerRow{}
			fillBorrower(row, b)
			rows[key] = row
			order = append(order, key)
		} else if b.ID < row.BorrowerID {
			fillBorrower(row, b)
		}

		row.LoanCount++
		row.TotalLoanAmount = row.TotalLoanAmount.Add(l.Amount)
		if l.Date.Valid() {
			if !row.FirstLoanDate.Valid() || l.Date.Before(row.FirstLoanDate) {
				row.FirstLoanDate = l.Date
			}
			if l.Date.After(row.LastLoanDate) {
				row.LastLoanDate = l.Date
			}
		}
	}

	rep := &BorrowerReport{Rows: make([]BorrowerRow, 0, len(order))}
	for _, key := range order {
		row := rows[key]
		rep.Rows = append(rep.Rows, *row)
		rep.Summary.BorrowerCount++
		rep.Summary.TotalLoans += row.LoanCount
		rep.Summary.TotalLoanAmount = rep.Summary.TotalLoanAmount.Add(row.TotalLoanAmount)
	}

	slices.SortStableFunc(rep.Rows, func(a, b BorrowerRow) int {
		if c := cmp.Compare(strOrEmpty(a.Name), strOrEmpty(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.BorrowerID, b.BorrowerID)
	})
	return rep, nil
}

// fillBorrower copies the borrower record, leaving the loan totals untouched.
func fillBorrower(row *BorrowerRow, b *domain.Borrower) {
	row.BorrowerID = b.ID
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
