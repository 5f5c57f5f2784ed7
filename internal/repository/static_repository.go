package repository

import (
	"cmp"
	"context"
	"slices"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/staticdata"
)

// staticSource answers the same queries as sqlSource from an in-memory dataset.
type staticSource struct {
	ds staticdata.Dataset
}

// NewStaticSource returns a ReportSource over ds. Rows are sorted by id once
// so results match the live ORDER BY id.
func NewStaticSource(ds staticdata.Dataset) ReportSource {
	ds = ds.Clone()
	slices.SortStableFunc(ds.Disbursements, func(a, b domain.Disbursement) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(ds.Repayments, func(a, b domain.Repayment) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(ds.Schedules, func(a, b domain.PaymentSchedule) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(ds.Applications, func(a, b domain.Application) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(ds.Borrowers, func(a, b domain.Borrower) int { return cmp.Compare(a.ID, b.ID) })
	return &staticSource{ds: ds}
}

func (s *staticSource) Name() string { return SourceStatic }

func (s *staticSource) Disbursements(ctx context.Context, r domain.Range) ([]domain.Disbursement, error) {
	return filterRows(ctx, s.ds.Disbursements, func(d domain.Disbursement) bool { return r.Contains(d.Date) })
}

func (s *staticSource) AllDisbursements(ctx context.Context) ([]domain.Disbursement, error) {
	return filterRows(ctx, s.ds.Disbursements, func(domain.Disbursement) bool { return true })
}

func (s *staticSource) DisbursementsByID(ctx context.Context, ids []int64) ([]domain.Disbursement, error) {
	set := idSet(ids)
	return filterRows(ctx, s.ds.Disbursements, func(d domain.Disbursement) bool { return set[d.ID] })
}

func (s *staticSource) Repayments(ctx context.Context, r domain.Range) ([]domain.Repayment, error) {
	return filterRows(ctx, s.ds.Repayments, func(p domain.Repayment) bool { return r.Contains(p.Date) })
}

func (s *staticSource) RepaymentsByDisbursement(ctx context.Context, disbursementIDs []int64) ([]domain.Repayment, error) {
	set := idSet(disbursementIDs)
	return filterRows(ctx, s.ds.Repayments, func(p domain.Repayment) bool { return set[p.DisbursementID] })
}

func (s *staticSource) Schedules(ctx context.Context, r domain.Range) ([]domain.PaymentSchedule, error) {
	return filterRows(ctx, s.ds.Schedules, func(p domain.PaymentSchedule) bool { return r.Contains(p.Date) })
}

func (s *staticSource) SchedulesByDisbursement(ctx context.Context, disbursementIDs []int64) ([]domain.PaymentSchedule, error) {
	set := idSet(disbursementIDs)
	return filterRows(ctx, s.ds.Schedules, func(p domain.PaymentSchedule) bool { return set[p.DisbursementID] })
}

func (s *staticSource) Applications(ctx context.Context, ids []int64) ([]domain.Application, error) {
	set := idSet(ids)
	return filterRows(ctx, s.ds.Applications, func(a domain.Application) bool { return set[a.ID] })
}

func (s *staticSource) Borrowers(ctx context.Context, ids []int64) ([]domain.Borrower, error) {
	set := idSet(ids)
	return filterRows(ctx, s.ds.Borrowers, func(b domain.Borrower) bool { return set[b.ID] })
}

// filterRows returns nil rather than an empty slice when nothing matches, the
// same as SelectContext over zero rows.
func filterRows[T any](ctx context.Context, rows []T, keep func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []T
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id > 0 {
			set[id] = true
		}
	}
	return set
}
