package staticdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-reports/internal/domain"
)

func TestLoad(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	require.Len(t, ds.Disbursements, 3)
	require.Len(t, ds.Repayments, 4)
	require.Len(t, ds.Schedules, 5)
	require.Len(t, ds.Borrowers, 3)
	require.Len(t, ds.Applications, 3)

	d := ds.Disbursements[0]
	assert.Equal(t, int64(5001), d.ID)
	assert.Equal(t, int64(2001), d.ApplicationID)
	assert.Equal(t, domain.Date("2024-03-05"), d.Date)
	assert.True(t, decimal.NewFromInt(5000).Equal(d.Amount))
	require.NotNil(t, d.InstallmentCount)
	assert.Equal(t, 12, *d.InstallmentCount)

	r := ds.Repayments[0]
	assert.True(t, decimal.NewFromInt(20).Equal(r.AcceptanceFee))
	assert.True(t, r.Counts())

	late := ds.Repayments[3]
	assert.True(t, decimal.NewFromInt(45).Equal(late.Fees()))

	b := ds.Borrowers[0]
	require.NotNil(t, b.UID)
	assert.Equal(t, "S9012345A", *b.UID)
	assert.Equal(t, domain.Date("1990-04-14"), b.DOB)
	assert.True(t, b.AnnualIncome.Valid)
	require.NotNil(t, b.PostalCode)
	assert.Equal(t, "550123", *b.PostalCode)

	require.NotNil(t, ds.Applications[2].LoanStatus)
	assert.Equal(t, domain.LoanStatusPending, *ds.Applications[2].LoanStatus)
}

func TestLoad_ReturnsIndependentCopies(t *testing.T) {
	first := MustLoad()
	first.Disbursements[0].ID = 1
	first.Repayments = nil

	second := MustLoad()
	assert.Equal(t, int64(5001), second.Disbursements[0].ID)
	assert.Len(t, second.Repayments, 4)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("disbursements:\n  - id: [1, 2]\n"))
	assert.Error(t, err)
}

func TestDataset_RowsAreOrderedByID(t *testing.T) {
	ds := MustLoad()
	for i := 1; i < len(ds.Schedules); i++ {
		assert.Less(t, ds.Schedules[i-1].ID, ds.Schedules[i].ID)
	}
	for i := 1; i < len(ds.Repayments); i++ {
		assert.Less(t, ds.Repayments[i-1].ID, ds.Repayments[i].ID)
	}
}
