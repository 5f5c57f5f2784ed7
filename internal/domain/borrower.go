package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Borrower is externally owned reference data.
type Borrower struct {
	ID           int64               `json:"id" db:"id" yaml:"id"`
	UID          *string             `json:"uid" db:"uid" yaml:"uid"`
	Name         *string             `json:"name" db:"name" yaml:"name"`
	Gender       *string             `json:"gender" db:"gender" yaml:"gender"`
	DOB          Date                `json:"dob" db:"dob" yaml:"dob"`
	AnnualIncome decimal.NullDecimal `json:"annual_income" db:"annual_income" yaml:"annual_income"`
	Block        *string             `json:"blk" db:"blk" yaml:"blk"`
	Street       *string             `json:"street" db:"street" yaml:"street"`
	Unit         *string             `json:"unit" db:"unit" yaml:"unit"`
	Building     *string             `json:"building" db:"building" yaml:"building"`
	PostalCode   *string             `json:"pincode" db:"pincode" yaml:"pincode"`
	Address      *string             `json:"address1" db:"address1" yaml:"address1"`
	Email        *string             `json:"email" db:"email" yaml:"email"`
	Phone        *string             `json:"hand_phone" db:"hand_phone" yaml:"hand_phone"`
}

// BorrowerKey identifies a borrower for distinct counts: the uid when present,
// otherwise the numeric id. It returns "" when neither is known.
func BorrowerKey(uid *string, borrowerID int64) string {
	if uid != nil && *uid != "" {
		return "uid:" + *uid
	}
	if borrowerID > 0 {
		return "id:" + strconv.FormatInt(borrowerID, 10)
	}
	return ""
}
