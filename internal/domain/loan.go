package domain

import (
	"github.com/shopspring/decimal"
)

// Application loan statuses that carry meaning for reporting.
const (
	LoanStatusActive    = "Active"
	LoanStatusPending   = "Pending"
	LoanStatusCancelled = "Cancelled"
	LoanStatusCanceled  = "Canceled"
	LoanStatusRejected  = "Rejected"
)

// Application is a loan application owned by a borrower.
type Application struct {
	ID            int64   `json:"id" db:"id" yaml:"id"`
	BorrowerID    int64   `json:"borrower_id" db:"borrower_id" yaml:"borrower_id"`
	Deleted       bool    `json:"deleted" db:"deleted" yaml:"deleted"`
	LoanStatus    *string `json:"loan_status" db:"loan_status" yaml:"loan_status"`
	AccountNumber *string `json:"account_number" db:"account_number" yaml:"account_number"`
}

// Closed reports whether the application was cancelled or rejected.
func (a *Application) Closed() bool {
	if a.LoanStatus == nil {
		return false
	}
	switch *a.LoanStatus {
	case LoanStatusCancelled, LoanStatusCanceled, LoanStatusRejected:
		return true
	}
	return false
}

// Disbursement is the payout of a loan; "loan" and "disbursement" are used interchangeably.
type Disbursement struct {
	ID               int64           `json:"id" db:"id" yaml:"id"`
	ApplicationID    int64           `json:"application_id" db:"application_id" yaml:"application_id"`
	Date             Date            `json:"date" db:"date" yaml:"date"`
	Amount           decimal.Decimal `json:"amount" db:"amount" yaml:"amount"`
	Status           *string         `json:"status" db:"status" yaml:"status"`
	AccountNumber    *string         `json:"account_number" db:"account_number" yaml:"account_number"`
	InstallmentCount *int            `json:"installment_count" db:"installment_count" yaml:"installment_count"`
	Remarks          *string         `json:"remarks" db:"remarks" yaml:"remarks"`
}

// IsActiveStatus reports whether any of the given statuses is Active or Pending.
func IsActiveStatus(statuses ...*string) bool {
	for _, s := range statuses {
		if s != nil && (*s == LoanStatusActive || *s == LoanStatusPending) {
			return true
		}
	}
	return false
}
