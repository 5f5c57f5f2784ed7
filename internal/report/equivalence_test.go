package report_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/filter"
	"github.com/segyhp/loan-reports/internal/report"
	"github.com/segyhp/loan-reports/internal/repository"
	"github.com/segyhp/loan-reports/internal/repository/repotest"
	"github.com/segyhp/loan-reports/internal/staticdata"
)

func equivalenceDataset() staticdata.Dataset {
	ds := staticdata.MustLoad()
	dishonoured := domain.ChequeDishonoured
	ds.Borrowers = append(ds.Borrowers, domain.Borrower{ID: 1004, UID: str("S9012345A"), Name: str("Alicia T.")})
	ds.Applications = append(ds.Applications,
		domain.Application{ID: 2004, BorrowerID: 1004, LoanStatus: str("Cancelled")},
		domain.Application{ID: 2005, BorrowerID: 1002, Deleted: true},
	)
	ds.Disbursements = append(ds.Disbursements,
		domain.Disbursement{ID: 5004, ApplicationID: 2004, Date: "2024-06-01", Amount: dec(3000)},
		domain.Disbursement{ID: 5005, ApplicationID: 2005, Date: "2024-06-01", Amount: dec(9999)},
	)
	ds.Repayments = append(ds.Repayments,
		domain.Repayment{ID: 8005, DisbursementID: 5002, Date: "2024-06-19", Amount: dec(100), Principal: dec(100), Deleted: true},
		domain.Repayment{ID: 8006, DisbursementID: 5002, Date: "2024-07-19", Amount: dec(100), Principal: dec(100), ChequeDishonour: &dishonoured},
		domain.Repayment{ID: 8007, DisbursementID: 5004, Date: "2024-06-15", Amount: dec(500), Principal: dec(450), Interest: dec(50)},
	)
	ds.Schedules = append(ds.Schedules,
		domain.PaymentSchedule{ID: 7006, DisbursementID: 5003, Date: "2024-07-12", Amount: dec(3200), Skip: true},
		domain.PaymentSchedule{ID: 7007, DisbursementID: 5004, Date: "2024-07-01", Amount: dec(550), Interest: dec(50)},
	)
	return ds
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestLiveAndStaticSourcesAgree(t *testing.T) {
	ds := equivalenceDataset()
	db := repotest.OpenSeeded(t, ds)

	ranges := map[string]filter.Resolved{
		"unbounded":  filter.Resolve("", ""),
		"year":       filter.Resolve("2024-01-01", "2024-12-31"),
		"single day": filter.Resolve("2024-05-12", "2024-05-12"),
		"open end":   filter.Resolve("2024-05-01", ""),
		"inverted":   filter.Resolve("2024-12-31", "2024-01-01"),
	}
	variants := []filter.UpcomingVariant{filter.UpcomingFromToday, filter.UpcomingInRange}

	for _, variant := range variants {
		for name, res := range ranges {
			t.Run(string(variant)+"/"+name, func(t *testing.T) {
				ctx := context.Background()
				opts := report.Options{Today: today, Upcoming: variant}
				live := report.NewEngine(repository.NewSQLSource(db), opts)
				static := report.NewEngine(repository.NewStaticSource(ds), opts)

				liveCat, err := live.Catalogue(ctx, res)
				require.NoError(t, err)
				staticCat, err := static.Catalogue(ctx, res)
				require.NoError(t, err)
				assert.JSONEq(t, mustJSON(t, staticCat), mustJSON(t, liveCat))

				for _, def := range report.Definitions() {
					liveDetail, err := live.Detail(ctx, def.ID, res)
					require.NoError(t, err)
					staticDetail, err := static.Detail(ctx, def.ID, res)
					require.NoError(t, err)
					assert.JSONEq(t, mustJSON(t, staticDetail), mustJSON(t, liveDetail), def.ID)
				}
			})
		}
	}
}

func TestEngine_ReusesLoadedRows(t *testing.T) {
	ds := equivalenceDataset()
	e := staticEngine(ds, filter.UpcomingFromToday)
	res := filter.Resolve("2024-01-01", "2024-12-31")

	first, err := e.Catalogue(context.Background(), res)
	require.NoError(t, err)
	second, err := e.Catalogue(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, mustJSON(t, first), mustJSON(t, second))
	assert.Equal(t, repository.SourceStatic, e.Source())
}
