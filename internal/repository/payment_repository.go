package repository

import (
	"context"

	"github.com/segyhp/loan-reports/internal/domain"
	customError "github.com/segyhp/loan-reports/pkg/errors"
)

const repaymentColumns = `
	SELECT id, COALESCE(disbursement_id, 0) AS disbursement_id, date,
		COALESCE(amount, 0) AS amount,
		COALESCE(principal, 0) AS principal,
		COALESCE(interest, 0) AS interest,
		COALESCE(legal_fee, 0) AS legal_fee,
		COALESCE(acceptance_fee, 0) AS acceptance_fee,
		COALESCE(contract_variation_fee, 0) AS contract_variation_fee,
		COALESCE(cheque_dishonoured_fee, 0) AS cheque_dishonoured_fee,
		COALESCE(termination_fee, 0) AS termination_fee,
		COALESCE(renewal_fee, 0) AS renewal_fee,
		COALESCE(late_fee, 0) AS late_fee,
		cheque_dishonour,
		COALESCE(deleted, 0) AS deleted
	FROM repayments`

const scheduleColumns = `
	SELECT id, COALESCE(disbursement_id, 0) AS disbursement_id, date,
		COALESCE(amount, 0) AS amount,
		COALESCE(principal, 0) AS principal,
		COALESCE(interest, 0) AS interest,
		COALESCE(late_fee, 0) AS late_fee,
		COALESCE(late_interest, 0) AS late_interest,
		COALESCE(legal_fee, 0) AS legal_fee,
		COALESCE(renewal_fee, 0) AS renewal_fee,
		COALESCE(contract_variation_fee, 0) AS contract_variation_fee,
		COALESCE(cheque_dishonour_fee, 0) AS cheque_dishonour_fee,
		COALESCE(termination_fee, 0) AS termination_fee,
		COALESCE(skip, 0) AS skip,
		COALESCE(deleted, 0) AS deleted,
		google_calendar_url
	FROM payment_schedule`

func (r *sqlSource) Repayments(ctx context.Context, rng domain.Range) ([]domain.Repayment, error) {
	query := repaymentColumns + `
		WHERE date BETWEEN ? AND ?
		ORDER BY id
	`

	var rows []domain.Repayment
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query), rng.Start.String(), rng.End.String()); err != nil {
		return nil, customError.WrapQueryFailed("repayments", err)
	}
	return rows, nil
}

func (r *sqlSource) RepaymentsByDisbursement(ctx context.Context, disbursementIDs []int64) ([]domain.Repayment, error) {
	query := repaymentColumns + `
		WHERE disbursement_id IN (?)
		ORDER BY id
	`
	return selectByIDs(ctx, r.q, "repayments", query, disbursementIDs, func(p domain.Repayment) int64 { return p.ID })
}

func (r *sqlSource) Schedules(ctx context.Context, rng domain.Range) ([]domain.PaymentSchedule, error) {
	query := scheduleColumns + `
		WHERE date BETWEEN ? AND ?
		ORDER BY id
	`

	var rows []domain.PaymentSchedule
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query), rng.Start.String(), rng.End.String()); err != nil {
		return nil, customError.WrapQueryFailed("payment_schedule", err)
	}
	return rows, nil
}

func (r *sqlSource) SchedulesByDisbursement(ctx context.Context, disbursementIDs []int64) ([]domain.PaymentSchedule, error) {
	query := scheduleColumns + `
		WHERE disbursement_id IN (?)
		ORDER BY id
	`
	return selectByIDs(ctx, r.q, "payment_schedule", query, disbursementIDs, func(s domain.PaymentSchedule) int64 { return s.ID })
}
