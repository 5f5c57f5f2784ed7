package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-reports/internal/filter"
	"github.com/segyhp/loan-reports/internal/service"
	customError "github.com/segyhp/loan-reports/pkg/errors"
	"github.com/segyhp/loan-reports/pkg/response"
)

// ReportService is the part of the service layer the handlers call.
type ReportService interface {
	Catalogue(ctx context.Context, req service.Request) (*service.CatalogueResponse, error)
	Detail(ctx context.Context, reportID string, req service.Request) (*service.DetailResponse, error)
	DefaultUpcoming() filter.UpcomingVariant
}

type ReportHandler struct {
	service ReportService
	logger  logrus.FieldLogger
}

func NewReportHandler(service ReportService, logger logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.WithField("module", "handler"),
	}
}

// Catalogue serves every report card for the requested period.
func (h *ReportHandler) Catalogue(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Catalogue(r.Context(), h.parseRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, resp)
}

// Detail serves one report with its full rows.
func (h *ReportHandler) Detail(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["reportId"]

	resp, err := h.service.Detail(r.Context(), reportID, h.parseRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, resp)
}

// parseRequest reads the filters. Nothing is rejected: malformed dates are
// resolved as absent further down and an unknown upcoming variant falls back
// to the default.
func (h *ReportHandler) parseRequest(r *http.Request) service.Request {
	q := r.URL.Query()
	fallback := h.service.DefaultUpcoming()
	variant, err := filter.ParseVariant(q.Get(filter.ParamUpcoming), fallback)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": response.RequestID(r.Context()),
			"upcoming":   q.Get(filter.ParamUpcoming),
		}).Debug("unknown upcoming variant, using default")
		variant = fallback
	}
	return service.Request{
		StartDate: q.Get(filter.ParamStartDate),
		EndDate:   q.Get(filter.ParamEndDate),
		Upcoming:  variant,
	}
}

func (h *ReportHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var be *customError.BusinessError
	switch {
	case errors.Is(err, customError.ErrUnknownReport) && errors.As(err, &be):
		response.NotFound(w, be.Message)
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful can be written
		h.logger.WithField("request_id", response.RequestID(r.Context())).Debug("request cancelled")
	default:
		h.logger.WithError(err).WithField("request_id", response.RequestID(r.Context())).Error("report request failed")
		response.InternalServerError(w, "Failed to load reports", nil)
	}
}
