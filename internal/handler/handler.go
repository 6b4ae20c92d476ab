// Package handler exposes the ledger over HTTP. Handlers follow one shape:
// bind, validate, load the full collection, transform it, save it back.
// The store publishes the change signal; nothing here updates derived
// views directly.
package handler

import (
	"ledger-service/internal/analytics"
	"ledger-service/internal/pricing"
	"ledger-service/internal/store"
)

// Handler carries the wired dependencies for all routes.
type Handler struct {
	store  *store.EntityStore
	view   *analytics.SummaryView
	policy pricing.Policy
}

// New creates a handler set
func New(s *store.EntityStore, v *analytics.SummaryView, policy pricing.Policy) *Handler {
	return &Handler{store: s, view: v, policy: policy}
}
