// Package audit captures structured evaluation events. Events are
// transport-agnostic so stores and sinks can fan out; the engine emits them
// and never inspects where they go.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened.
type Action string

const (
	// ActionEvaluationCompleted records a finished compliance evaluation.
	ActionEvaluationCompleted Action = "evaluation_completed"

	// ActionIngredientUnknown records an ingredient no tier could classify.
	ActionIngredientUnknown Action = "ingredient_unknown"

	// ActionOntologyEnriched records a new entry persisted from a connector.
	ActionOntologyEnriched Action = "ontology_enriched"
)

// Event is one audit record. The engine fills what it knows; empty fields
// are omitted from serialized forms.
type Event struct {
	ID                    uuid.UUID `json:"id"`
	Timestamp             time.Time `json:"timestamp"`
	Action                Action    `json:"action"`
	RequestID             string    `json:"request_id,omitempty"`
	Overall               string    `json:"overall,omitempty"`
	RestrictionIDs        []string  `json:"restriction_ids,omitempty"`
	TriggeredRestrictions []string  `json:"triggered_restrictions,omitempty"`
	IngredientCount       int       `json:"ingredient_count,omitempty"`
	UnknownCount          int       `json:"unknown_count,omitempty"`
	Confidence            float64   `json:"confidence,omitempty"`
	Ingredient            string    `json:"ingredient,omitempty"`
	Provenance            string    `json:"provenance,omitempty"`
	Reason                string    `json:"reason,omitempty"`
}

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
}
