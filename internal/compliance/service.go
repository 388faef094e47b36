package compliance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"safeplate/internal/ontology"
	"safeplate/internal/profile"
	"safeplate/internal/restriction"
	derrors "safeplate/pkg/domain-errors"
	"safeplate/pkg/platform/audit"
)

// Resolver is the ingredient resolution dependency. Satisfied by the
// ontology registry.
type Resolver interface {
	Resolve(ctx context.Context, name string) ontology.IngredientEntry
	Version() string
}

// Request is one evaluation call. RestrictionIDs, when set, bypasses the
// profile bridge and names the restriction set directly.
type Request struct {
	Ingredients    []string
	Profile        profile.Profile
	RestrictionIDs []string
	Explain        bool
	RequestID      string
}

// Service orchestrates resolution, evaluation, audit, and optional
// explanation for one request at a time. Stateless between calls.
type Service struct {
	resolver     Resolver
	restrictions *restriction.Registry
	explainer    Explainer
	auditor      *audit.Publisher
	logger       *slog.Logger
	maxParallel  int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithExplainer attaches an explanation stage for non-safe verdicts.
func WithExplainer(e Explainer) ServiceOption {
	return func(s *Service) { s.explainer = e }
}

// WithAuditor attaches an audit publisher.
func WithAuditor(a *audit.Publisher) ServiceOption {
	return func(s *Service) { s.auditor = a }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithMaxParallelResolves bounds concurrent ingredient resolutions.
func WithMaxParallelResolves(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

// NewService builds the evaluation service.
func NewService(resolver Resolver, restrictions *restriction.Registry, opts ...ServiceOption) *Service {
	s := &Service{
		resolver:     resolver,
		restrictions: restrictions,
		logger:       slog.Default(),
		maxParallel:  8,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Evaluate runs the full pipeline: restriction set from the request,
// concurrent ingredient resolution, pure aggregation, audit, and optional
// explanation. A slow or failed connector degrades one ingredient to
// Unknown; it never fails the call.
func (s *Service) Evaluate(ctx context.Context, req Request) (Verdict, error) {
	start := time.Now()

	active, err := s.activeRestrictions(req)
	if err != nil {
		return Verdict{}, err
	}

	names := DedupeIngredients(req.Ingredients)
	resolved := make([]ResolvedIngredient, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, name := range names {
		g.Go(func() error {
			resolved[i] = ResolvedIngredient{
				Name:  name,
				Entry: s.resolver.Resolve(gctx, name),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Verdict{}, derrors.Wrap(derrors.CodeInternal, "ingredient resolution failed", err)
	}

	verdict := Evaluate(resolved, active, time.Now())
	verdict.OntologyVersion = s.resolver.Version()

	evaluationsTotal.WithLabelValues(string(verdict.Overall)).Inc()
	evaluationDuration.Observe(time.Since(start).Seconds())

	s.audit(ctx, req, active, verdict, resolved)

	if req.Explain {
		verdict = explain(ctx, s.explainer, verdict, s.logger)
	}
	return verdict, nil
}

// activeRestrictions computes the effective restriction set: the explicit
// IDs when given, otherwise the profile bridge. No restriction is silently
// dropped; an unknown ID is the caller's error.
func (s *Service) activeRestrictions(req Request) ([]*restriction.Restriction, error) {
	ids := req.RestrictionIDs
	if len(ids) == 0 {
		var err error
		ids, err = req.Profile.RestrictionIDs(s.restrictions)
		if err != nil {
			return nil, err
		}
	}
	active := make([]*restriction.Restriction, 0, len(ids))
	for _, id := range ids {
		res, err := s.restrictions.Get(id)
		if err != nil {
			var unsupported *restriction.ErrUnsupportedRestriction
			if errors.As(err, &unsupported) {
				return nil, derrors.Wrap(derrors.CodeValidation, "unsupported restriction: "+id, err)
			}
			return nil, err
		}
		active = append(active, res)
	}
	return active, nil
}

func (s *Service) audit(ctx context.Context, req Request, active []*restriction.Restriction, verdict Verdict, resolved []ResolvedIngredient) {
	unknown := 0
	for _, ing := range resolved {
		if ing.Entry.IsUnknown() {
			unknown++
			unknownIngredients.Inc()
			if s.auditor != nil {
				if err := s.auditor.Emit(ctx, audit.Event{
					Action:     audit.ActionIngredientUnknown,
					RequestID:  req.RequestID,
					Ingredient: ing.Name,
				}); err != nil {
					s.logger.Warn("audit emit failed", "error", err)
				}
			}
		}
	}
	if s.auditor == nil {
		return
	}
	ids := make([]string, len(active))
	for i, res := range active {
		ids[i] = res.ID
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		Action:                audit.ActionEvaluationCompleted,
		RequestID:             req.RequestID,
		Overall:               string(verdict.Overall),
		RestrictionIDs:        ids,
		TriggeredRestrictions: verdict.TriggeredRestrictions,
		IngredientCount:       len(resolved),
		UnknownCount:          unknown,
		Confidence:            verdict.Confidence,
	}); err != nil {
		s.logger.Warn("audit emit failed", "error", err)
	}
}
