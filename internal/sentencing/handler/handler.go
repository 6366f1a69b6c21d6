package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/models"
	dErrors "sentencer/pkg/domain-errors"
	"sentencer/pkg/platform/httputil"
	"sentencer/pkg/requestcontext"
)

// Service defines the sentencing operations exposed over HTTP.
type Service interface {
	Compute(ctx context.Context, in sentencing.CaseInput) (*models.Computation, error)
	ComputeBatch(ctx context.Context, inputs []sentencing.CaseInput) ([]models.BatchItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Computation, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Computation, error)
	MatchFactor(ctx context.Context, category string, tier sentencing.Tier, text string) (*models.FactorMatch, error)
	ResolveJurisdiction(ctx context.Context, key, category string) (*models.JurisdictionLookup, error)
}

// Handler wires sentencing endpoints to the sentencing service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts sentencing endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/sentencing", func(r chi.Router) {
		r.Post("/compute", h.HandleCompute)
		r.Post("/compute/batch", h.HandleComputeBatch)
		r.Get("/computations", h.HandleListComputations)
		r.Get("/computations/{id}", h.HandleGetComputation)
		r.Post("/factors/match", h.HandleMatchFactor)
		r.Get("/jurisdictions/{key}", h.HandleResolveJurisdiction)
	})
}

// HandleCompute handles POST /sentencing/compute.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ComputeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.Compute(ctx, req.CaseInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "sentencing computation failed",
			"request_id", requestID,
			"category", req.Category,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sentencing computed",
		"request_id", requestID,
		"computation_id", rec.ID,
		"category", rec.Outcome.Category,
		"status", rec.Outcome.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromComputation(rec))
}

// HandleComputeBatch handles POST /sentencing/compute/batch. Failed cases
// are reported per item; the reply is 200 whenever the batch was accepted.
func (h *Handler) HandleComputeBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	items, err := h.service.ComputeBatch(ctx, req.CaseInputs())
	if err != nil {
		h.logger.ErrorContext(ctx, "sentencing batch failed",
			"request_id", requestID,
			"size", len(req.Cases),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := FromBatch(items)
	h.logger.InfoContext(ctx, "sentencing batch computed",
		"request_id", requestID,
		"size", len(items),
		"failed", resp.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleListComputations handles GET /sentencing/computations?limit=N.
func (h *Handler) HandleListComputations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	recs, err := h.service.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list computations",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromComputations(recs))
}

// HandleGetComputation handles GET /sentencing/computations/{id}.
func (h *Handler) HandleGetComputation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid computation id"))
		return
	}

	rec, err := h.service.Get(ctx, id)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load computation",
				"request_id", requestID,
				"computation_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromComputation(rec))
}

// HandleMatchFactor handles POST /sentencing/factors/match.
func (h *Handler) HandleMatchFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[MatchFactorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	match, err := h.service.MatchFactor(ctx, req.Category, req.ParsedTier(), req.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromFactorMatch(match))
}

// HandleResolveJurisdiction handles GET /sentencing/jurisdictions/{key}.
// The optional category query parameter adds the amount thresholds.
func (h *Handler) HandleResolveJurisdiction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lookup, err := h.service.ResolveJurisdiction(ctx, chi.URLParam(r, "key"), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromJurisdictionLookup(lookup))
}
