package domain

import "github.com/shopspring/decimal"

// ChequeDishonoured marks a reversed (bounced) repayment.
const ChequeDishonoured = "1"

// Repayment is a payment received against a disbursement.
type Repayment struct {
	ID                   int64           `json:"id" db:"id" yaml:"id"`
	DisbursementID       int64           `json:"disbursement_id" db:"disbursement_id" yaml:"disbursement_id"`
	Date                 Date            `json:"date" db:"date" yaml:"date"`
	Amount               decimal.Decimal `json:"amount" db:"amount" yaml:"amount"`
	Principal            decimal.Decimal `json:"principal" db:"principal" yaml:"principal"`
	Interest             decimal.Decimal `json:"interest" db:"interest" yaml:"interest"`
	LegalFee             decimal.Decimal `json:"legal_fee" db:"legal_fee" yaml:"legal_fee"`
	AcceptanceFee        decimal.Decimal `json:"acceptance_fee" db:"acceptance_fee" yaml:"acceptance_fee"`
	ContractVariationFee decimal.Decimal `json:"contract_variation_fee" db:"contract_variation_fee" yaml:"contract_variation_fee"`
	ChequeDishonouredFee decimal.Decimal `json:"cheque_dishonoured_fee" db:"cheque_dishonoured_fee" yaml:"cheque_dishonoured_fee"`
	TerminationFee       decimal.Decimal `json:"termination_fee" db:"termination_fee" yaml:"termination_fee"`
	RenewalFee           decimal.Decimal `json:"renewal_fee" db:"renewal_fee" yaml:"renewal_fee"`
	LateFee              decimal.Decimal `json:"late_fee" db:"late_fee" yaml:"late_fee"`
	ChequeDishonour      *string         `json:"cheque_dishonour" db:"cheque_dishonour" yaml:"cheque_dishonour"`
	Deleted              bool            `json:"deleted" db:"deleted" yaml:"deleted"`
}

// Counts reports whether the repayment takes part in monetary aggregation.
func (r *Repayment) Counts() bool {
	if r.Deleted {
		return false
	}
	return r.ChequeDishonour == nil || *r.ChequeDishonour != ChequeDishonoured
}

// Fees sums every fee component of the repayment.
func (r *Repayment) Fees() decimal.Decimal {
	return r.LegalFee.
		Add(r.AcceptanceFee).
		Add(r.ContractVariationFee).
		Add(r.ChequeDishonouredFee).
		Add(r.TerminationFee).
		Add(r.RenewalFee).
		Add(r.LateFee)
}
