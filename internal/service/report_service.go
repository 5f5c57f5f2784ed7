package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-reports/internal/cache"
	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/filter"
	"github.com/segyhp/loan-reports/internal/metrics"
	"github.com/segyhp/loan-reports/internal/report"
	"github.com/segyhp/loan-reports/internal/repository"
	customError "github.com/segyhp/loan-reports/pkg/errors"
	"github.com/segyhp/loan-reports/pkg/response"
)

// Advisories shown when a response is served from the static dataset.
const (
	AdvisoryStoreUnavailable = "Database connection unavailable. Showing sample data instead."
	AdvisoryQueryFailed      = "Unexpected error while loading data. Showing sample data instead."
)

// Fallback reasons, as reported to metrics and logs.
const (
	ReasonStoreUnavailable = "store_unavailable"
	ReasonQueryFailed      = "query_failed"
)

const (
	viewCatalogue = "catalogue"
	viewDetail    = "detail"
)

type Options struct {
	Cache         *cache.ReportCache
	Metrics       *metrics.Recorder
	Logger        logrus.FieldLogger
	Clock         func() time.Time
	Upcoming      filter.UpcomingVariant
	SlowThreshold time.Duration
}

type ReportService struct {
	connector repository.Connector
	static    repository.ReportSource
	cache     *cache.ReportCache
	metrics   *metrics.Recorder
	logger    logrus.FieldLogger
	clock     func() time.Time
	upcoming  filter.UpcomingVariant
	slow      time.Duration
}

func NewReportService(connector repository.Connector, static repository.ReportSource, opts Options) *ReportService {
	if opts.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		opts.Logger = discard
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Upcoming == "" {
		opts.Upcoming = filter.UpcomingFromToday
	}
	return &ReportService{
		connector: connector,
		static:    static,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		logger:    opts.Logger.WithField("module", "service"),
		clock:     opts.Clock,
		upcoming:  opts.Upcoming,
		slow:      opts.SlowThreshold,
	}
}

// Request carries the raw filter values of one report request.
type Request struct {
	StartDate string
	EndDate   string
	Upcoming  filter.UpcomingVariant

	// refresh skips the cache read but still stores the result
	refresh bool
}

type CatalogueResponse struct {
	Filters  filter.Filters      `json:"filters"`
	Source   string              `json:"source"`
	Advisory string              `json:"advisory,omitempty"`
	Reports  []report.Descriptor `json:"reports"`
}

type DetailResponse struct {
	Filters    filter.Filters    `json:"filters"`
	Meta       report.Meta       `json:"meta"`
	Source     string            `json:"source"`
	Advisory   string            `json:"advisory,omitempty"`
	Descriptor report.Descriptor `json:"descriptor"`
	Summary    any               `json:"summary"`
	Rows       any               `json:"rows"`
}

// DefaultUpcoming is the upcoming window used when a request names none.
func (s *ReportService) DefaultUpcoming() filter.UpcomingVariant {
	return s.upcoming
}

// Catalogue computes every report card. Store faults are never returned:
// the whole catalogue is then served from the static dataset with an
// advisory. Only a cancelled ctx aborts the request.
func (s *ReportService) Catalogue(ctx context.Context, req Request) (*CatalogueResponse, error) {
	res := filter.Resolve(req.StartDate, req.EndDate)
	base := s.baseOptions(req)
	log := s.requestLogger(ctx, viewCatalogue, "")
	key := cache.Key(cache.KindCatalogue, "", res.Filters, base.Upcoming, base.Today)

	if !req.refresh {
		var cached CatalogueResponse
		if s.fromCache(ctx, log, key, &cached) {
			s.metrics.ObserveRequest(viewCatalogue, cached.Source)
			return &cached, nil
		}
	}

	resp := &CatalogueResponse{Filters: res.Filters}
	advisory, err := s.withSource(ctx, log, base, func(e *report.Engine) error {
		reports, err := e.Catalogue(ctx, res)
		if err != nil {
			return err
		}
		resp.Source = e.Source()
		resp.Reports = reports
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Advisory = advisory

	s.metrics.ObserveRequest(viewCatalogue, resp.Source)
	if resp.Source == repository.SourceLive {
		s.toCache(ctx, log, key, resp)
	}
	return resp, nil
}

// Detail computes one report with its rows, with the same fallback rules as
// Catalogue. An unknown reportID is returned as ErrUnknownReport.
func (s *ReportService) Detail(ctx context.Context, reportID string, req Request) (*DetailResponse, error) {
	if _, err := report.Lookup(reportID); err != nil {
		return nil, err
	}

	res := filter.Resolve(req.StartDate, req.EndDate)
	base := s.baseOptions(req)
	log := s.requestLogger(ctx, viewDetail, reportID)
	key := cache.Key(cache.KindDetail, reportID, res.Filters, base.Upcoming, base.Today)

	if !req.refresh {
		var cached cachedDetail
		if s.fromCache(ctx, log, key, &cached) {
			resp := cached.DetailResponse
			resp.Summary = cached.Summary
			resp.Rows = cached.Rows
			s.metrics.ObserveRequest(viewDetail, resp.Source)
			return &resp, nil
		}
	}

	resp := &DetailResponse{Filters: res.Filters}
	advisory, err := s.withSource(ctx, log, base, func(e *report.Engine) error {
		d, err := e.Detail(ctx, reportID, res)
		if err != nil {
			return err
		}
		resp.Source = e.Source()
		resp.Meta = d.Meta
		resp.Descriptor = d.Descriptor
		resp.Summary = d.Summary
		resp.Rows = d.Rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Advisory = advisory

	s.metrics.ObserveRequest(viewDetail, resp.Source)
	if resp.Source == repository.SourceLive {
		s.toCache(ctx, log, key, resp)
	}
	return resp, nil
}

// Warm recomputes the unfiltered catalogue and every detail page and stores
// them in the cache.
func (s *ReportService) Warm(ctx context.Context) error {
	req := Request{refresh: true}
	if _, err := s.Catalogue(ctx, req); err != nil {
		return err
	}
	for _, def := range report.Definitions() {
		if _, err := s.Detail(ctx, def.ID, req); err != nil {
			return err
		}
	}
	return nil
}

// cachedDetail keeps summary and rows as raw JSON so a cache hit re-encodes
// byte for byte.
type cachedDetail struct {
	DetailResponse
	Summary json.RawMessage `json:"summary"`
	Rows    json.RawMessage `json:"rows"`
}

func (s *ReportService) baseOptions(req Request) report.Options {
	upcoming := req.Upcoming
	if upcoming == "" {
		upcoming = s.upcoming
	}
	return report.Options{
		Today:    domain.DateOf(s.clock()),
		Upcoming: upcoming,
	}
}

// withSource runs fn against a live session, and again against the static
// dataset when the session cannot be opened or fn fails on it. It returns
// the advisory to surface, empty when the live store answered.
func (s *ReportService) withSource(ctx context.Context, log logrus.FieldLogger, base report.Options, fn func(*report.Engine) error) (string, error) {
	reason, advisory := ReasonStoreUnavailable, AdvisoryStoreUnavailable

	session, err := s.connector.Open(ctx)
	if err == nil {
		err = fn(s.newEngine(session, base, log))
		if closeErr := session.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("closing store session")
		}
		if err == nil {
			return "", nil
		}
		reason, advisory = ReasonQueryFailed, AdvisoryQueryFailed
		if errors.Is(err, customError.ErrStoreUnavailable) {
			reason, advisory = ReasonStoreUnavailable, AdvisoryStoreUnavailable
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	log.WithError(err).WithField("reason", reason).Warn("live store failed, serving static dataset")
	s.metrics.ObserveFallback(reason)

	if err := fn(s.newEngine(s.static, base, log)); err != nil {
		return "", err
	}
	return advisory, nil
}

func (s *ReportService) newEngine(src repository.ReportSource, base report.Options, log logrus.FieldLogger) *report.Engine {
	source := src.Name()
	base.Observe = func(reportID string, elapsed time.Duration, err error) {
		s.metrics.ObserveReport(reportID, source, elapsed)
		if err == nil && s.slow > 0 && elapsed > s.slow {
			log.WithFields(logrus.Fields{
				"report":     reportID,
				"source":     source,
				"elapsed_ms": elapsed.Milliseconds(),
			}).Info("slow report")
		}
	}
	return report.NewEngine(src, base)
}

func (s *ReportService) requestLogger(ctx context.Context, view, reportID string) logrus.FieldLogger {
	fields := logrus.Fields{"view": view}
	if reportID != "" {
		fields["report"] = reportID
	}
	if id := response.RequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	return s.logger.WithFields(fields)
}

func (s *ReportService) fromCache(ctx context.Context, log logrus.FieldLogger, key string, dest any) bool {
	if !s.cache.Enabled() {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.WithError(err).Warn("reading report cache")
	}
	s.metrics.ObserveCache(hit)
	return hit
}

func (s *ReportService) toCache(ctx context.Context, log logrus.FieldLogger, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.WithError(err).Warn("writing report cache")
	}
}
