package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-reports/internal/filter"
	"github.com/segyhp/loan-reports/internal/mocks"
	"github.com/segyhp/loan-reports/internal/report"
	"github.com/segyhp/loan-reports/internal/repository"
	"github.com/segyhp/loan-reports/internal/service"
	"github.com/segyhp/loan-reports/internal/staticdata"
	customError "github.com/segyhp/loan-reports/pkg/errors"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Catalogue(ctx context.Context, req service.Request) (*service.CatalogueResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CatalogueResponse), args.Error(1)
}

func (m *mockReportService) Detail(ctx context.Context, reportID string, req service.Request) (*service.DetailResponse, error) {
	args := m.Called(ctx, reportID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DetailResponse), args.Error(1)
}

func (m *mockReportService) DefaultUpcoming() filter.UpcomingVariant {
	return filter.UpcomingFromToday
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRouter(h *ReportHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reports", h.Catalogue).Methods(http.MethodGet)
	router.HandleFunc("/reports/{reportId}", h.Detail).Methods(http.MethodGet)
	return router
}

func serve(router http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestCatalogue_PassesFilters(t *testing.T) {
	svc := &mockReportService{}
	svc.On("Catalogue", mock.Anything, service.Request{
		StartDate: "2024-01-01",
		EndDate:   "not-a-date",
		Upcoming:  filter.UpcomingInRange,
	}).Return(&service.CatalogueResponse{Source: repository.SourceLive}, nil)

	rec, body := serve(newRouter(NewReportHandler(svc, quietLogger())),
		"/api/v1/reports?startDate=2024-01-01&endDate=not-a-date&upcoming=in-range")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "live", data["source"])
	svc.AssertExpectations(t)
}

func TestCatalogue_UnknownVariantUsesDefault(t *testing.T) {
	svc := &mockReportService{}
	svc.On("Catalogue", mock.Anything, service.Request{Upcoming: filter.UpcomingFromToday}).
		Return(&service.CatalogueResponse{Source: repository.SourceLive}, nil)

	rec, body := serve(newRouter(NewReportHandler(svc, quietLogger())), "/api/v1/reports?upcoming=someday")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	svc.AssertExpectations(t)
}

func TestDetail_UnknownVariantUsesDefault(t *testing.T) {
	svc := &mockReportService{}
	svc.On("Detail", mock.Anything, report.UpcomingScheduleID, service.Request{StartDate: "2024-01-01", Upcoming: filter.UpcomingFromToday}).
		Return(&service.DetailResponse{Source: repository.SourceStatic}, nil)

	rec, _ := serve(newRouter(NewReportHandler(svc, quietLogger())),
		"/reports/"+report.UpcomingScheduleID+"?startDate=2024-01-01&upcoming=next-week")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCatalogue_UnexpectedError(t *testing.T) {
	svc := &mockReportService{}
	svc.On("Catalogue", mock.Anything, mock.Anything).Return(nil, errors.New("static dataset corrupt"))

	rec, body := serve(newRouter(NewReportHandler(svc, quietLogger())), "/api/v1/reports")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load reports", body["message"])
}

func TestDetail_UnknownReport(t *testing.T) {
	svc := &mockReportService{}
	svc.On("Detail", mock.Anything, "nope", mock.Anything).Return(nil, customError.WrapUnknownReport("nope"))

	rec, body := serve(newRouter(NewReportHandler(svc, quietLogger())), "/reports/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `Report "nope" does not exist`, body["message"])
}

func TestReports_EndToEndStaticFallback(t *testing.T) {
	connector := repository.NewConnector(nil, time.Second)
	svc := service.NewReportService(connector, repository.NewStaticSource(staticdata.MustLoad()), service.Options{
		Clock: func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
	router := newRouter(NewReportHandler(svc, quietLogger()))

	rec, body := serve(router, "/api/v1/reports?startDate=2024-01-01&endDate=2024-12-31")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "static", data["source"])
	assert.Equal(t, service.AdvisoryStoreUnavailable, data["advisory"])
	reports := data["reports"].([]any)
	require.Len(t, reports, 6)
	first := reports[0].(map[string]any)
	assert.Equal(t, "/reports/loan-disbursement-summary?startDate=2024-01-01&endDate=2024-12-31", first["url"])

	rec, body = serve(router, "/reports/"+report.ActiveLoansID+"?startDate=2024-01-01")
	require.Equal(t, http.StatusOK, rec.Code)
	data = body["data"].(map[string]any)
	meta := data["meta"].(map[string]any)
	assert.Equal(t, "Active Loans Report", meta["title"])
	assert.Equal(t, "1 Jan 2024", meta["periodStart"])
	assert.Len(t, data["rows"].([]any), 3)

	rec, _ = serve(router, "/reports/unknown-report")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = serve(router, "/api/v1/reports?upcoming=bogus&startDate=01/02/2024")
	require.Equal(t, http.StatusOK, rec.Code)
	data = body["data"].(map[string]any)
	assert.Len(t, data["reports"].([]any), 6)
	assert.Nil(t, data["filters"].(map[string]any)["startDate"])
}

func TestReports_LiveSessionMock(t *testing.T) {
	connector := &mocks.MockConnector{}
	connector.On("Open", mock.Anything).Return(mocks.StaticSession(repository.NewStaticSource(staticdata.MustLoad())), nil)

	svc := service.NewReportService(connector, repository.NewStaticSource(staticdata.Dataset{}), service.Options{})
	rec, body := serve(newRouter(NewReportHandler(svc, quietLogger())), "/reports/borrower-list")

	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Nil(t, data["advisory"])
	assert.Len(t, data["rows"].([]any), 3)
	connector.AssertExpectations(t)
}
