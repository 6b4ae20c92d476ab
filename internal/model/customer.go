package model

import (
	"strings"
	"time"
)

// Sale channels. A customer without a dealer bought direct.
const (
	ChannelDirect = "direct"
	ChannelDealer = "dealer"
)

// UnknownModelName is the display sentinel for a customer whose model was
// deleted after the sale was recorded.
const UnknownModelName = "Unknown"

// Customer represents a recorded sale. SellingPrice and Profit are snapshot
// fields: resolved once when the record is created or edited and stored
// with it, so later price changes on the model or dealer never rewrite an
// already-recorded sale.
type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile"`
	City         string    `json:"city,omitempty"`
	District     string    `json:"district,omitempty"`
	State        string    `json:"state,omitempty"`
	ModelID      string    `json:"model_id"`
	DealerID     string    `json:"dealer_id,omitempty"`
	Reference    bool      `json:"reference"`
	SellingPrice float64   `json:"selling_price"`
	Profit       float64   `json:"profit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Channel reports the sale path for this customer
func (c *Customer) Channel() string {
	if c.DealerID == "" {
		return ChannelDirect
	}
	return ChannelDealer
}

// Validate checks the customer's required fields. Snapshot fields are not
// validated here; they are owned by the pricing resolver.
func (c *Customer) Validate() error {
	if len(strings.TrimSpace(c.Name)) < 2 {
		return &ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if len(strings.TrimSpace(c.Mobile)) < 6 {
		return &ValidationError{Field: "mobile", Message: "mobile must be at least 6 characters"}
	}
	if c.ModelID == "" {
		return &ValidationError{Field: "model_id", Message: "model_id is required"}
	}
	return nil
}
