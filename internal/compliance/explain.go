package compliance

import (
	"context"
	"log/slog"
)

// Explainer turns a computed verdict into a human-readable explanation.
// It receives the verdict by value and returns prose only: there is no way
// for an implementation to alter the outcome it describes.
type Explainer interface {
	Explain(ctx context.Context, verdict Verdict) (string, error)
}

// explain decorates a verdict with prose when an explainer is configured.
// Failures degrade to the unexplained verdict; the explanation is a
// courtesy, the verdict is the product.
func explain(ctx context.Context, explainer Explainer, verdict Verdict, logger *slog.Logger) Verdict {
	if explainer == nil || verdict.Overall == OverallSafe {
		return verdict
	}
	prose, err := explainer.Explain(ctx, verdict)
	if err != nil {
		logger.Warn("verdict explanation failed", "overall", string(verdict.Overall), "error", err)
		return verdict
	}
	verdict.Explanation = prose
	return verdict
}
