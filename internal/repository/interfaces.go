package repository

import (
	"context"

	"github.com/segyhp/loan-reports/internal/domain"
)

// Source names reported alongside every response.
const (
	SourceLive   = "live"
	SourceStatic = "static"
)

// ReportSource supplies raw entity rows to the report aggregators. Every
// method returns rows ordered by id. Range methods are inclusive on both ends
// and never return rows without a date. ID-list methods return nothing for an
// empty list.
type ReportSource interface {
	// Name identifies the backing store ("live" or "static")
	Name() string

	// Disbursements returns disbursements dated within r
	Disbursements(ctx context.Context, r domain.Range) ([]domain.Disbursement, error)

	// AllDisbursements returns every disbursement regardless of date
	AllDisbursements(ctx context.Context) ([]domain.Disbursement, error)

	// DisbursementsByID returns the disbursements with the given ids
	DisbursementsByID(ctx context.Context, ids []int64) ([]domain.Disbursement, error)

	// Repayments returns repayments dated within r, including deleted and dishonoured rows
	Repayments(ctx context.Context, r domain.Range) ([]domain.Repayment, error)

	// RepaymentsByDisbursement returns every repayment of the given disbursements
	RepaymentsByDisbursement(ctx context.Context, disbursementIDs []int64) ([]domain.Repayment, error)

	// Schedules returns payment schedule rows due within r, including skipped and deleted rows
	Schedules(ctx context.Context, r domain.Range) ([]domain.PaymentSchedule, error)

	// SchedulesByDisbursement returns every schedule row of the given disbursements
	SchedulesByDisbursement(ctx context.Context, disbursementIDs []int64) ([]domain.PaymentSchedule, error)

	// Applications returns the applications with the given ids
	Applications(ctx context.Context, ids []int64) ([]domain.Application, error)

	// Borrowers returns the borrowers with the given ids
	Borrowers(ctx context.Context, ids []int64) ([]domain.Borrower, error)
}

// Session is a ReportSource bound to one acquired store connection.
type Session interface {
	ReportSource

	// Close returns the connection to the pool
	Close() error
}

// Connector opens a live Session per request.
type Connector interface {
	// Open acquires a connection. Failures are reported as ErrStoreUnavailable.
	Open(ctx context.Context) (Session, error)
}
