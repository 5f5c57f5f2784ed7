package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/repository"
)

type MockReportSource struct {
	mock.Mock
}

func (m *MockReportSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockReportSource) Disbursements(ctx context.Context, rng domain.Range) ([]domain.Disbursement, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Disbursement), args.Error(1)
}

func (m *MockReportSource) AllDisbursements(ctx context.Context) ([]domain.Disbursement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Disbursement), args.Error(1)
}

func (m *MockReportSource) DisbursementsByID(ctx context.Context, ids []int64) ([]domain.Disbursement, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Disbursement), args.Error(1)
}

func (m *MockReportSource) Repayments(ctx context.Context, rng domain.Range) ([]domain.Repayment, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repayment), args.Error(1)
}

func (m *MockReportSource) RepaymentsByDisbursement(ctx context.Context, ids []int64) ([]domain.Repayment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repayment), args.Error(1)
}

func (m *MockReportSource) Schedules(ctx context.Context, rng domain.Range) ([]domain.PaymentSchedule, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentSchedule), args.Error(1)
}

func (m *MockReportSource) SchedulesByDisbursement(ctx context.Context, ids []int64) ([]domain.PaymentSchedule, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentSchedule), args.Error(1)
}

func (m *MockReportSource) Applications(ctx context.Context, ids []int64) ([]domain.Application, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockReportSource) Borrowers(ctx context.Context, ids []int64) ([]domain.Borrower, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Borrower), args.Error(1)
}

// MockSession is a ReportSource that also records Close.
type MockSession struct {
	MockReportSource
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Open(ctx context.Context) (repository.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Session), args.Error(1)
}

// StaticSession wraps a ReportSource as a Session with a no-op Close.
func StaticSession(src repository.ReportSource) repository.Session {
	return staticSession{src}
}

type staticSession struct {
	repository.ReportSource
}

func (staticSession) Close() error { return nil }
