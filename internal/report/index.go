package report

import (
	"context"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/repository"
)

// Index is the per-request snapshot that aggregators join against. Rows are
// fetched from the source on first use and then shared by every report in
// the request. An Index is not safe for concurrent use.
type Index struct {
	src repository.ReportSource

	applications  map[int64]*domain.Application
	borrowers     map[int64]*domain.Borrower
	disbursements map[int64]*domain.Disbursement

	repayments map[int64][]domain.Repayment
	schedules  map[int64][]domain.PaymentSchedule

	// ids already requested, including ones the store did not return
	seenApplications  map[int64]bool
	seenBorrowers     map[int64]bool
	seenDisbursements map[int64]bool
	seenRepayments    map[int64]bool
	seenSchedules     map[int64]bool
}

// NewIndex returns an empty Index backed by src.
func NewIndex(src repository.ReportSource) *Index {
	return &Index{
		src:               src,
		applications:      make(map[int64]*domain.Application),
		borrowers:         make(map[int64]*domain.Borrower),
		disbursements:     make(map[int64]*domain.Disbursement),
		repayments:        make(map[int64][]domain.Repayment),
		schedules:         make(map[int64][]domain.PaymentSchedule),
		seenApplications:  make(map[int64]bool),
		seenBorrowers:     make(map[int64]bool),
		seenDisbursements: make(map[int64]bool),
		seenRepayments:    make(map[int64]bool),
		seenSchedules:     make(map[int64]bool),
	}
}

// Source returns the row source the index reads from.
func (ix *Index) Source() repository.ReportSource {
	return ix.src
}

// Add records applications and borrowers. Records without a positive id are
// skipped; the first record seen for an id wins.
func (ix *Index) Add(apps []domain.Application, borrowers []domain.Borrower) {
	for i := range apps {
		a := apps[i]
		if a.ID <= 0 {
			continue
		}
		ix.seenApplications[a.ID] = true
		if _, ok := ix.applications[a.ID]; !ok {
			ix.applications[a.ID] = &a
		}
	}
	for i := range borrowers {
		b := borrowers[i]
		if b.ID <= 0 {
			continue
		}
		ix.seenBorrowers[b.ID] = true
		if _, ok := ix.borrowers[b.ID]; !ok {
			ix.borrowers[b.ID] = &b
		}
	}
}

// LoadOwners makes the application and borrower of every disbursement available.
func (ix *Index) LoadOwners(ctx context.Context, disbursements []domain.Disbursement) error {
	appIDs := make([]int64, 0, len(disbursements))
	for _, d := range disbursements {
		appIDs = append(appIDs, d.ApplicationID)
	}
	if err := ix.loadApplications(ctx, appIDs); err != nil {
		return err
	}

	borrowerIDs := make([]int64, 0, len(appIDs))
	for _, id := range appIDs {
		if a := ix.applications[id]; a != nil {
			borrowerIDs = append(borrowerIDs, a.BorrowerID)
		}
	}
	return ix.loadBorrowers(ctx, borrowerIDs)
}

func (ix *Index) loadApplications(ctx context.Context, ids []int64) error {
	missing := unseen(ix.seenApplications, ids)
	if len(missing) == 0 {
		return nil
	}
	apps, err := ix.src.Applications(ctx, missing)
	if err != nil {
		return err
	}
	markSeen(ix.seenApplications, missing)
	ix.Add(apps, nil)
	return nil
}

func (ix *Index) loadBorrowers(ctx context.Context, ids []int64) error {
	missing := unseen(ix.seenBorrowers, ids)
	if len(missing) == 0 {
		return nil
	}
	borrowers, err := ix.src.Borrowers(ctx, missing)
	if err != nil {
		return err
	}
	markSeen(ix.seenBorrowers, missing)
	ix.Add(nil, borrowers)
	return nil
}

// LoadDisbursements fetches disbursements by id, along with their owners.
func (ix *Index) LoadDisbursements(ctx context.Context, ids []int64) error {
	missing := unseen(ix.seenDisbursements, ids)
	if len(missing) == 0 {
		return nil
	}
	rows, err := ix.src.DisbursementsByID(ctx, missing)
	if err != nil {
		return err
	}
	markSeen(ix.seenDisbursements, missing)
	ix.addDisbursements(rows)
	return ix.LoadOwners(ctx, rows)
}

func (ix *Index) addDisbursements(rows []domain.Disbursement) {
	for i := range rows {
		d := rows[i]
		if d.ID <= 0 {
			continue
		}
		ix.seenDisbursements[d.ID] = true
		if _, ok := ix.disbursements[d.ID]; !ok {
			ix.disbursements[d.ID] = &d
		}
	}
}

// LoadRepayments fetches every repayment of the given disbursements.
func (ix *Index) LoadRepayments(ctx context.Context, disbursementIDs []int64) error {
	missing := unseen(ix.seenRepayments, disbursementIDs)
	if len(missing) == 0 {
		return nil
	}
	rows, err := ix.src.RepaymentsByDisbursement(ctx, missing)
	if err != nil {
		return err
	}
	markSeen(ix.seenRepayments, missing)
	for _, r := range rows {
		ix.repayments[r.DisbursementID] = append(ix.repayments[r.DisbursementID], r)
	}
	return nil
}

// LoadSchedules fetches every schedule row of the given disbursements.
func (ix *Index) LoadSchedules(ctx context.Context, disbursementIDs []int64) error {
	missing := unseen(ix.seenSchedules, disbursementIDs)
	if len(missing) == 0 {
		return nil
	}
	rows, err := ix.src.SchedulesByDisbursement(ctx, missing)
	if err != nil {
		return err
	}
	markSeen(ix.seenSchedules, missing)
	for _, s := range rows {
		ix.schedules[s.DisbursementID] = append(ix.schedules[s.DisbursementID], s)
	}
	return nil
}

// Application returns the application with id, or nil.
func (ix *Index) Application(id int64) *domain.Application {
	return ix.applications[id]
}

// Borrower returns the borrower with id, or nil.
func (ix *Index) Borrower(id int64) *domain.Borrower {
	return ix.borrowers[id]
}

// Disbursement returns a disbursement loaded through LoadDisbursements, or nil.
func (ix *Index) Disbursement(id int64) *domain.Disbursement {
	return ix.disbursements[id]
}

// Repayments returns the loaded repayments of a disbursement in id order.
func (ix *Index) Repayments(disbursementID int64) []domain.Repayment {
	return ix.repayments[disbursementID]
}

// Schedules returns the loaded schedule rows of a disbursement in id order.
func (ix *Index) Schedules(disbursementID int64) []domain.PaymentSchedule {
	return ix.schedules[disbursementID]
}

// Owner resolves disbursement -> application -> borrower. Either result may
// be nil, as with a left join.
func (ix *Index) Owner(d domain.Disbursement) (*domain.Application, *domain.Borrower) {
	app := ix.applications[d.ApplicationID]
	if app == nil {
		return nil, nil
	}
	return app, ix.borrowers[app.BorrowerID]
}

func unseen(seen map[int64]bool, ids []int64) []int64 {
	var out []int64
	dup := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] || dup[id] {
			continue
		}
		dup[id] = true
		out = append(out, id)
	}
	return out
}

func markSeen(seen map[int64]bool, ids []int64) {
	for _, id := range ids {
		seen[id] = true
	}
}
