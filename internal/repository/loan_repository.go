package repository

import (
	"cmp"
	"context"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-reports/internal/domain"
	customError "github.com/segyhp/loan-reports/pkg/errors"
)

// maxInParams bounds the size of one IN (...) list.
const maxInParams = 500

// Queryer is the read surface shared by *sqlx.DB, *sqlx.Conn and *sqlx.Tx.
type Queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

// sqlSource reads raw rows with plain range and id queries. Every filtering
// rule lives in the report package so both sources share it.
type sqlSource struct {
	q Queryer
}

// NewSQLSource returns a ReportSource that runs its queries on q.
func NewSQLSource(q Queryer) ReportSource {
	return &sqlSource{q: q}
}

func (r *sqlSource) Name() string { return SourceLive }

const disbursementColumns = `
	SELECT id, COALESCE(application_id, 0) AS application_id, date, COALESCE(amount, 0) AS amount, status,
		account_number, installment_count, remarks
	FROM disbursements`

func (r *sqlSource) Disbursements(ctx context.Context, rng domain.Range) ([]domain.Disbursement, error) {
	query := disbursementColumns + `
		WHERE date BETWEEN ? AND ?
		ORDER BY id
	`

	var rows []domain.Disbursement
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query), rng.Start.String(), rng.End.String()); err != nil {
		return nil, customError.WrapQueryFailed("disbursements", err)
	}
	return rows, nil
}

func (r *sqlSource) AllDisbursements(ctx context.Context) ([]domain.Disbursement, error) {
	query := disbursementColumns + `
		ORDER BY id
	`

	var rows []domain.Disbursement
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query)); err != nil {
		return nil, customError.WrapQueryFailed("disbursements", err)
	}
	return rows, nil
}

func (r *sqlSource) DisbursementsByID(ctx context.Context, ids []int64) ([]domain.Disbursement, error) {
	query := disbursementColumns + `
		WHERE id IN (?)
		ORDER BY id
	`
	return selectByIDs(ctx, r.q, "disbursements", query, ids, func(d domain.Disbursement) int64 { return d.ID })
}

func (r *sqlSource) Applications(ctx context.Context, ids []int64) ([]domain.Application, error) {
	query := `
		SELECT id, COALESCE(borrower_id, 0) AS borrower_id, COALESCE(deleted, 0) AS deleted,
			loan_status, account_number
		FROM applications
		WHERE id IN (?)
		ORDER BY id
	`
	return selectByIDs(ctx, r.q, "applications", query, ids, func(a domain.Application) int64 { return a.ID })
}

func (r *sqlSource) Borrowers(ctx context.Context, ids []int64) ([]domain.Borrower, error) {
	query := `
		SELECT id, uid, name, gender, dob, annual_income, blk, street, unit, building,
			pincode, address1, email, hand_phone
		FROM borrowers
		WHERE id IN (?)
		ORDER BY id
	`
	return selectByIDs(ctx, r.q, "borrowers", query, ids, func(b domain.Borrower) int64 { return b.ID })
}

// selectByIDs expands query's single IN (?) over ids in bounded chunks and
// returns the union ordered by idOf.
func selectByIDs[T any](ctx context.Context, q Queryer, table, query string, ids []int64, idOf func(T) int64) ([]T, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var out []T
	for start := 0; start < len(ids); start += maxInParams {
		end := min(start+maxInParams, len(ids))

		stmt, args, err := sqlx.In(query, ids[start:end])
		if err != nil {
			return nil, customError.WrapQueryFailed(table, err)
		}

		var chunk []T
		if err := q.SelectContext(ctx, &chunk, q.Rebind(stmt), args...); err != nil {
			return nil, customError.WrapQueryFailed(table, err)
		}
		out = append(out, chunk...)
	}

	if len(ids) > maxInParams {
		slices.SortStableFunc(out, func(a, b T) int {
			return cmp.Compare(idOf(a), idOf(b))
		})
	}
	return out, nil
}

// uniqueIDs returns the sorted positive ids without duplicates.
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
