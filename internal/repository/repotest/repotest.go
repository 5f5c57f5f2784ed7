// Package repotest provides an in-memory SQLite store with the reporting
// tables, for tests that exercise the live query path.
package repotest

import (
	_ "embed"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-reports/internal/staticdata"
)

//go:embed schema.sql
var schema string

// Open returns an empty store with the schema applied. The pool is pinned to
// one connection because every SQLite :memory: connection is its own database.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

// OpenSeeded returns a store loaded with ds.
func OpenSeeded(t testing.TB, ds staticdata.Dataset) *sqlx.DB {
	t.Helper()
	db := Open(t)
	Seed(t, db, ds)
	return db
}

// Seed inserts every row of ds.
func Seed(t testing.TB, db *sqlx.DB, ds staticdata.Dataset) {
	t.Helper()

	for _, b := range ds.Borrowers {
		_, err := db.NamedExec(`
			INSERT INTO borrowers (id, uid, name, gender, dob, annual_income, blk, street, unit,
				building, pincode, address1, email, hand_phone)
			VALUES (:id, :uid, :name, :gender, :dob, :annual_income, :blk, :street, :unit,
				:building, :pincode, :address1, :email, :hand_phone)`, b)
		require.NoError(t, err)
	}

	for _, a := range ds.Applications {
		_, err := db.NamedExec(`
			INSERT INTO applications (id, borrower_id, deleted, loan_status, account_number)
			VALUES (:id, :borrower_id, :deleted, :loan_status, :account_number)`, a)
		require.NoError(t, err)
	}

	for _, d := range ds.Disbursements {
		_, err := db.NamedExec(`
			INSERT INTO disbursements (id, application_id, date, amount, status, account_number,
				installment_count, remarks)
			VALUES (:id, :application_id, :date, :amount, :status, :account_number,
				:installment_count, :remarks)`, d)
		require.NoError(t, err)
	}

	for _, r := range ds.Repayments {
		_, err := db.NamedExec(`
			INSERT INTO repayments (id, disbursement_id, date, amount, principal, interest,
				legal_fee, acceptance_fee, contract_variation_fee, cheque_dishonoured_fee,
				termination_fee, renewal_fee, late_fee, cheque_dishonour, deleted)
			VALUES (:id, :disbursement_id, :date, :amount, :principal, :interest,
				:legal_fee, :acceptance_fee, :contract_variation_fee, :cheque_dishonoured_fee,
				:termination_fee, :renewal_fee, :late_fee, :cheque_dishonour, :deleted)`, r)
		require.NoError(t, err)
	}

	for _, s := range ds.Schedules {
		_, err := db.NamedExec(`
			INSERT INTO payment_schedule (id, disbursement_id, date, amount, principal, interest,
				late_fee, late_interest, legal_fee, renewal_fee, contract_variation_fee,
				cheque_dishonour_fee, termination_fee, skip, deleted, google_calendar_url)
			VALUES (:id, :disbursement_id, :date, :amount, :principal, :interest,
				:late_fee, :late_interest, :legal_fee, :renewal_fee, :contract_variation_fee,
				:cheque_dishonour_fee, :termination_fee, :skip, :deleted, :google_calendar_url)`, s)
		require.NoError(t, err)
	}
}
