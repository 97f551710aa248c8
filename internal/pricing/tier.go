// Package pricing implements the order pricing engine: per-line unit, carton
// and tax arithmetic, line merging on (product, variant) identity, and order
// aggregation with an editable round-off. Everything here is pure computation
// over variants and counts already loaded by the caller.
package pricing

import (
	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// Tier selects which of the variant's prices applies to a line item.
type Tier string

const (
	TierRetail    Tier = "retail"
	TierWholesale Tier = "wholesale"
	TierPurchase  Tier = "purchase"
)

// Valid reports whether t is a known pricing tier.
func (t Tier) Valid() bool {
	switch t {
	case TierRetail, TierWholesale, TierPurchase:
		return true
	}
	return false
}

// ValidateSales rejects tiers that a customer order cannot use. Purchase
// pricing is reserved for purchase orders.
func (t Tier) ValidateSales() error {
	if t == TierRetail || t == TierWholesale {
		return nil
	}
	return shared.NewValidationError("pricing_tier", "must be retail or wholesale")
}

// PriceFor resolves the unit price for a variant under the given tier.
// Selection happens once, at add-time; a later tier change requires the
// caller to re-add the line.
func PriceFor(v *catalog.ProductVariant, tier Tier) float64 {
	switch tier {
	case TierWholesale:
		return v.WholesalePrice
	case TierPurchase:
		return v.PurchasePrice
	default:
		return v.RetailPrice
	}
}
