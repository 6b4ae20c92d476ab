package model

import (
	"strings"
	"time"
)

// Model represents a sellable product SKU with the company's acquisition
// cost and the two list prices: direct-to-customer and default dealer.
type Model struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Cost        float64   `json:"cost"`
	DirectPrice float64   `json:"direct_price"`
	DealerPrice float64   `json:"dealer_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Validate checks the model's required fields and price invariants
func (m *Model) Validate() error {
	if len(strings.TrimSpace(m.Name)) < 2 {
		return &ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if m.Cost < 0 {
		return &ValidationError{Field: "cost", Message: "cost must not be negative"}
	}
	if m.DirectPrice < 0 {
		return &ValidationError{Field: "direct_price", Message: "direct_price must not be negative"}
	}
	if m.DealerPrice < 0 {
		return &ValidationError{Field: "dealer_price", Message: "dealer_price must not be negative"}
	}
	return nil
}

// FindModel returns the model with the given ID, or nil when the ID no
// longer resolves (a dangling reference, not an error).
func FindModel(models []Model, id string) *Model {
	for i := range models {
		if models[i].ID == id {
			return &models[i]
		}
	}
	return nil
}
