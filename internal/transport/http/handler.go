// Package httptransport is the thin HTTP layer over the compliance service.
// It decodes, validates, delegates, and renders; no business logic lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"safeplate/internal/compliance"
	"safeplate/internal/ontology"
	"safeplate/internal/platform/middleware"
	"safeplate/internal/restriction"
	derrors "safeplate/pkg/domain-errors"
	"safeplate/pkg/platform/httputil"
)

// Service defines the evaluation operations the transport needs.
type Service interface {
	Evaluate(ctx context.Context, req compliance.Request) (compliance.Verdict, error)
}

// Resolver exposes ingredient lookup for the read endpoint.
type Resolver interface {
	Resolve(ctx context.Context, name string) ontology.IngredientEntry
	Health(ctx context.Context) map[string]error
}

// Handler wires evaluation endpoints to the compliance service.
type Handler struct {
	service      Service
	resolver     Resolver
	restrictions *restriction.Registry
	logger       *slog.Logger
}

// New constructs the handler with its dependencies.
func New(service Service, resolver Resolver, restrictions *restriction.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		service:      service,
		resolver:     resolver,
		restrictions: restrictions,
		logger:       logger,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/evaluate", h.HandleEvaluate)
	r.Get("/v1/ingredients/{name}", h.HandleIngredient)
	r.Get("/v1/restrictions", h.HandleRestrictions)
}

// HandleEvaluate handles POST /v1/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verdict, err := h.service.Evaluate(ctx, compliance.Request{
		Ingredients:    req.Ingredients,
		Profile:        req.Profile,
		RestrictionIDs: req.RestrictionIDs,
		Explain:        req.Explain,
		RequestID:      requestID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "evaluation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "evaluation completed",
		"request_id", requestID,
		"overall", string(verdict.Overall),
		"ingredients", len(verdict.Ingredients),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromVerdict(verdict))
}

// HandleIngredient handles GET /v1/ingredients/{name} requests. Resolution
// never fails; an unclassifiable name returns its Unknown entry, not a 404.
func (h *Handler) HandleIngredient(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "ingredient name is required"))
		return
	}
	entry := h.resolver.Resolve(r.Context(), name)
	httputil.WriteJSON(w, http.StatusOK, IngredientEntryResponse{
		Query: name,
		Entry: entry,
	})
}

// HandleRestrictions handles GET /v1/restrictions requests.
func (h *Handler) HandleRestrictions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"restrictions": FromRestrictions(h.restrictions.List()),
	})
}

// HandleHealthz reports liveness plus connector reachability. The service
// stays healthy when a connector is down; connectors are a degradation, not
// a dependency.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	connectors := make(map[string]string)
	for id, err := range h.resolver.Health(r.Context()) {
		if err != nil {
			connectors[id] = "unreachable"
		} else {
			connectors[id] = "ok"
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"connectors": connectors,
	})
}
