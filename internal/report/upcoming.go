package report

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/filter"
)

// UpcomingRow is one expected instalment with its loan and borrower contact.
// Loan and borrower fields are null when the schedule row has no resolvable owner.
type UpcomingRow struct {
	ScheduleID           int64               `json:"scheduleId"`
	DisbursementID       int64               `json:"disbursementId"`
	DueDate              domain.Date         `json:"dueDate"`
	Amount               decimal.Decimal     `json:"amount"`
	Principal            decimal.Decimal     `json:"principal"`
	Interest             decimal.Decimal     `json:"interest"`
	LateFee              decimal.Decimal     `json:"lateFee"`
	LateInterest         decimal.Decimal     `json:"lateInterest"`
	LegalFee             decimal.Decimal     `json:"legalFee"`
	RenewalFee           decimal.Decimal     `json:"renewalFee"`
	ContractVariationFee decimal.Decimal     `json:"contractVariationFee"`
	ChequeDishonourFee   decimal.Decimal     `json:"chequeDishonourFee"`
	TerminationFee       decimal.Decimal     `json:"terminationFee"`
	CalendarURL          *string             `json:"calendarUrl"`
	AccountNumber        *string             `json:"accountNumber"`
	LoanAmount           decimal.NullDecimal `json:"loanAmount"`
	BorrowerName         *string             `json:"borrowerName"`
	BorrowerUID          *string             `json:"borrowerUid"`
	BorrowerPhone        *string             `json:"borrowerPhone"`
	BorrowerEmail        *string             `json:"borrowerEmail"`
}

type UpcomingSummary struct {
	Variant           filter.UpcomingVariant `json:"variant"`
	Window            domain.Range           `json:"window"`
	Count             int                    `json:"upcomingPayments"`
	TotalAmount       decimal.Decimal        `json:"scheduledAmount"`
	TotalPrincipal    decimal.Decimal        `json:"totalPrincipal"`
	TotalInterest     decimal.Decimal        `json:"totalInterest"`
	TotalLateFee      decimal.Decimal        `json:"totalLateFee"`
	TotalLateInterest decimal.Decimal        `json:"totalLateInterest"`
}

type UpcomingReport struct {
	Summary UpcomingSummary `json:"summary"`
	Rows    []UpcomingRow   `json:"rows"`
}

func (r *UpcomingReport) Metrics() []Metric {
	return []Metric{
		moneyMetric("Scheduled Amount", r.Summary.TotalAmount),
		countMetric("Upcoming Payments", r.Summary.Count),
	}
}

func (r *UpcomingReport) Payload() (any, any) { return r.Summary, r.Rows }

// UpcomingWindow returns the due-date window for rng under the engine's
// variant. From-today admits dates strictly after today up to rng.End and
// ignores rng.Start; in-range admits rng as is.
func (e *Engine) UpcomingWindow(rng domain.Range) domain.Range {
	if e.variant == filter.UpcomingInRange {
		return rng
	}
	return domain.Range{Start: e.today.AddDays(1), End: rng.End}
}

// UpcomingSchedule lists the schedule rows still due within the window,
// earliest first. Skipped and deleted rows never appear.
func (e *Engine) UpcomingSchedule(ctx context.Context, rng domain.Range) (*UpcomingReport, error) {
	window := e.UpcomingWindow(rng)
	rep := &UpcomingReport{
		Summary: UpcomingSummary{Variant: e.variant, Window: window},
		Rows:    []UpcomingRow{},
	}
	if window.Empty() {
		return rep, nil
	}

	schedules, err := e.src().Schedules(ctx, window)
	if err != nil {
		return nil, err
	}

	due := make([]domain.PaymentSchedule, 0, len(schedules))
	ids := make([]int64, 0, len(schedules))
	for _, s := range schedules {
		if !s.Due() {
			continue
		}
		due = append(due, s)
		ids = append(ids, s.DisbursementID)
	}
	if err := e.index.LoadDisbursements(ctx, ids); err != nil {
		return nil, err
	}

	for _, s := range due {
		row := UpcomingRow{
			ScheduleID:           s.ID,
			DisbursementID:       s.DisbursementID,
			DueDate:              s.Date,
			Amount:               s.Amount,
			Principal:            s.Principal,
			Interest:             s.Interest,
			LateFee:              s.LateFee,
			LateInterest:         s.LateInterest,
			LegalFee:             s.LegalFee,
			RenewalFee:           s.RenewalFee,
			ContractVariationFee: s.ContractVariationFee,
			ChequeDishonourFee:   s.ChequeDishonourFee,
			TerminationFee:       s.TerminationFee,
			CalendarURL:          s.CalendarURL,
		}
		if d := e.index.Disbursement(s.DisbursementID); d != nil {
			row.AccountNumber = d.AccountNumber
			row.LoanAmount = decimal.NewNullDecimal(d.Amount)
			if _, b := e.index.Owner(*d); b != nil {
				row.BorrowerName = b.Name
				row.BorrowerUID = b.UID
				row.BorrowerPhone = b.Phone
				row.BorrowerEmail = b.Email
			}
		}
		rep.Rows = append(rep.Rows, row)

		rep.Summary.Count++
		rep.Summary.TotalAmount = rep.Summary.TotalAmount.Add(s.Amount)
		rep.Summary.TotalPrincipal = rep.Summary.TotalPrincipal.Add(s.Principal)
		rep.Summary.TotalInterest = rep.Summary.TotalInterest.Add(s.Interest)
		rep.Summary.TotalLateFee = rep.Summary.TotalLateFee.Add(s.LateFee)
		rep.Summary.TotalLateInterest = rep.Summary.TotalLateInterest.Add(s.LateInterest)
	}

	slices.SortStableFunc(rep.Rows, func(a, b UpcomingRow) int {
		if c := cmp.Compare(a.DueDate, b.DueDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ScheduleID, b.ScheduleID)
	})
	return rep, nil
}
