// Package pricing resolves the selling price and profit for a sale. The
// resolver is pure: it reads the model, the optional dealer and the policy
// knobs and returns a quote. Callers persist the quote on the customer
// record; it is a snapshot, never re-evaluated on read.
package pricing

import "ledger-service/internal/model"

// Policy carries the configurable parts of price resolution.
type Policy struct {
	// ReferenceBonus is added to the selling price when the sale carries
	// a reference, on either channel.
	ReferenceBonus float64
}

// Quote is the resolved outcome of a sale.
type Quote struct {
	SellingPrice float64 `json:"selling_price"`
	Profit       float64 `json:"profit"`
}

// Resolve computes the quote for a sale of m, optionally through dealer d.
//
// Channel selection: no dealer means the direct price applies; with a
// dealer, a per-model override wins over the model's default dealer price.
// Profit is selling minus cost and is deliberately not clamped at zero: a
// below-cost sale is recorded as negative profit so the books stay honest.
//
// A nil model resolves to a zero quote. That happens when a customer row
// references a model that was deleted afterwards; display degrades to
// zeroes instead of failing.
func Resolve(m *model.Model, d *model.Dealer, reference bool, policy Policy) Quote {
	if m == nil {
		return Quote{}
	}

	base := m.DirectPrice
	if d != nil {
		if override, ok := d.Prices[m.ID]; ok {
			base = override
		} else {
			base = m.DealerPrice
		}
	}

	selling := base
	if reference {
		selling += policy.ReferenceBonus
	}

	return Quote{
		SellingPrice: selling,
		Profit:       selling - m.Cost,
	}
}
