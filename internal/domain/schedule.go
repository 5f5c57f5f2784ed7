package domain

import "github.com/shopspring/decimal"

// PaymentSchedule is one expected instalment of a disbursement.
type PaymentSchedule struct {
	ID                   int64           `json:"id" db:"id" yaml:"id"`
	DisbursementID       int64           `json:"disbursement_id" db:"disbursement_id" yaml:"disbursement_id"`
	Date                 Date            `json:"date" db:"date" yaml:"date"`
	Amount               decimal.Decimal `json:"amount" db:"amount" yaml:"amount"`
	Principal            decimal.Decimal `json:"principal" db:"principal" yaml:"principal"`
	Interest             decimal.Decimal `json:"interest" db:"interest" yaml:"interest"`
	LateFee              decimal.Decimal `json:"late_fee" db:"late_fee" yaml:"late_fee"`
	LateInterest         decimal.Decimal `json:"late_interest" db:"late_interest" yaml:"late_interest"`
	LegalFee             decimal.Decimal `json:"legal_fee" db:"legal_fee" yaml:"legal_fee"`
	RenewalFee           decimal.Decimal `json:"renewal_fee" db:"renewal_fee" yaml:"renewal_fee"`
	ContractVariationFee decimal.Decimal `json:"contract_variation_fee" db:"contract_variation_fee" yaml:"contract_variation_fee"`
	ChequeDishonourFee   decimal.Decimal `json:"cheque_dishonour_fee" db:"cheque_dishonour_fee" yaml:"cheque_dishonour_fee"`
	TerminationFee       decimal.Decimal `json:"termination_fee" db:"termination_fee" yaml:"termination_fee"`
	Skip                 bool            `json:"skip" db:"skip" yaml:"skip"`
	Deleted              bool            `json:"deleted" db:"deleted" yaml:"deleted"`
	CalendarURL          *string         `json:"google_calendar_url" db:"google_calendar_url" yaml:"google_calendar_url"`
}

// Due reports whether the entry is still an expected payment.
func (s *PaymentSchedule) Due() bool {
	return !s.Skip && !s.Deleted
}
