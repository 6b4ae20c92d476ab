package model

import (
	"strings"
	"time"
)

// Dealer represents a reseller. Prices maps model ID to a dealer-specific
// price that overrides the model's default dealer price; the map is sparse
// and a missing entry means "use the default".
type Dealer struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Mobile    string             `json:"mobile"`
	Address   string             `json:"address,omitempty"`
	District  string             `json:"district,omitempty"`
	State     string             `json:"state,omitempty"`
	Prices    map[string]float64 `json:"prices,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at,omitempty"`
}

// Validate checks the dealer's required fields and override invariants
func (d *Dealer) Validate() error {
	if len(strings.TrimSpace(d.Name)) < 2 {
		return &ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if len(strings.TrimSpace(d.Mobile)) < 6 {
		return &ValidationError{Field: "mobile", Message: "mobile must be at least 6 characters"}
	}
	for modelID, price := range d.Prices {
		if price < 0 {
			return &ValidationError{Field: "prices." + modelID, Message: "override price must not be negative"}
		}
	}
	return nil
}

// FindDealer returns the dealer with the given ID, or nil when absent
func FindDealer(dealers []Dealer, id string) *Dealer {
	for i := range dealers {
		if dealers[i].ID == id {
			return &dealers[i]
		}
	}
	return nil
}
