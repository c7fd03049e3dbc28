package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/cricket-context/internal/platform/logging"
	"github.com/riskibarqy/cricket-context/internal/usecase"
)

const maxWPABodyBytes = 1 << 20

type Handler struct {
	resourceService    *usecase.ResourceService
	winProbService     *usecase.WinProbabilityService
	precomputedService *usecase.PrecomputedService
	venueService       *usecase.VenueService
	wpaService         *usecase.WPAService
	metrics            http.Handler
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	resourceService *usecase.ResourceService,
	winProbService *usecase.WinProbabilityService,
	precomputedService *usecase.PrecomputedService,
	venueService *usecase.VenueService,
	wpaService *usecase.WPAService,
	metrics http.Handler,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = http.NotFoundHandler()
	}

	return &Handler{
		resourceService:    resourceService,
		winProbService:     winProbService,
		precomputedService: precomputedService,
		venueService:       venueService,
		wpaService:         wpaService,
		metrics:            metrics,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

func (h *Handler) GetResourcePercentage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResourcePercentage")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := resourceRequest{
		contextParams: readContextParams(q),
		Innings:       q.RequiredInt("innings"),
		Over:          q.RequiredInt("over"),
		Wickets:       q.RequiredInt("wickets"),
	}
	if err := h.readRequest(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.resourceService.ResourcePercentage(ctx, usecase.ResourceQuery{
		Venue:   req.Venue,
		League:  req.League,
		Innings: req.Innings,
		Over:    req.Over,
		Wickets: req.Wickets,
		Before:  req.Before,
		Relaxed: req.Relaxed,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resource lookup rejected", "venue", req.Venue, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lookupToDTO(result))
}

func (h *Handler) GetResourceTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResourceTable")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := resourceTableRequest{
		contextParams: readContextParams(q),
		Innings:       q.RequiredInt("innings"),
	}
	if err := h.readRequest(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.resourceService.Table(ctx, usecase.ResourceQuery{
		Venue:   req.Venue,
		League:  req.League,
		Innings: req.Innings,
		Before:  req.Before,
		Relaxed: req.Relaxed,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resource table rejected", "venue", req.Venue, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resourceTableToDTO(result))
}

func (h *Handler) GetWinProbability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWinProbability")
	defer span.End()

	h.serveWinProbability(ctx, w, r, h.winProbService)
}

func (h *Handler) GetPrecomputedWinProbability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrecomputedWinProbability")
	defer span.End()

	h.serveWinProbability(ctx, w, r, h.precomputedService)
}

func (h *Handler) serveWinProbability(ctx context.Context, w http.ResponseWriter, r *http.Request, reader usecase.WinProbabilityReader) {
	q := newQueryReader(r.URL.Query())
	req := winProbabilityRequest{
		contextParams: readContextParams(q),
		Target:        q.RequiredInt("target"),
		Over:          q.RequiredInt("over"),
		Ball:          q.Int("ball"),
		Wickets:       q.RequiredInt("wickets"),
		Score:         q.RequiredInt("score"),
	}
	if err := h.readRequest(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := reader.WinProbability(ctx, req.toQuery())
	if err != nil {
		h.logger.WarnContext(ctx, "win probability lookup rejected", "venue", req.Venue, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lookupToDTO(result))
}

func (h *Handler) GetVenueCluster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetVenueCluster")
	defer span.End()

	item, err := h.venueService.VenueCluster(ctx, r.URL.Query().Get("venue"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, venueClusterDTO{
		Venue:     item.Venue,
		Canonical: item.Canonical,
		Cluster:   item.Cluster,
		Found:     item.Found,
	})
}

func (h *Handler) GetVenueHierarchy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetVenueHierarchy")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := readContextParams(q)
	if err := h.readRequest(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	counts, err := h.venueService.HierarchyCounts(ctx, req.Venue, req.League, req.Before, req.Relaxed)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, hierarchyToDTO(counts))
}

func (h *Handler) PostInningsWPA(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostInningsWPA")
	defer span.End()

	var req inningsWPARequest
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxWPABodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	before, err := parseCutoff(req.Before)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: before: %v", usecase.ErrInvalidInput, err))
		return
	}

	balls := make([]usecase.BallInput, 0, len(req.Balls))
	for _, b := range req.Balls {
		balls = append(balls, usecase.BallInput{
			Batter:     b.Batter,
			Bowler:     b.Bowler,
			RunsOffBat: b.RunsOffBat,
			Extras:     b.Extras,
			Wicket:     b.Wicket,
			Illegal:    b.Illegal,
		})
	}

	result, err := h.wpaService.Innings(ctx, usecase.InningsInput{
		Venue:   req.Venue,
		League:  req.League,
		Target:  req.Target,
		Before:  before,
		Relaxed: req.Relaxed,
		Balls:   balls,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "innings wpa rejected", "venue", req.Venue, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, inningsWPAToDTO(result))
}

func (h *Handler) readRequest(ctx context.Context, q *queryReader, payload any) error {
	if err := q.Err(); err != nil {
		return err
	}
	annotateLookup(ctx, payload)
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
