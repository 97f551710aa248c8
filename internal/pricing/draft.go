package pricing

import (
	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// Draft is the mutable line collection of an order being edited. It is
// single-writer state: one editing session owns it, so no locking is needed.
type Draft struct {
	lines []LineItem
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// Lines returns the draft's lines in insertion order. The slice is a copy;
// mutating it does not affect the draft.
func (d *Draft) Lines() []LineItem {
	out := make([]LineItem, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len returns the number of lines.
func (d *Draft) Len() int { return len(d.lines) }

// AddOrUpdateLine prices a variant under the given tier and merges it into
// the draft. A line is identified by (product, variant): adding the same
// variant again updates the existing line in place with the new counts and
// the freshly resolved unit price, keeping any per-line tax override.
// Non-positive counts reject the operation and leave the draft unchanged.
func (d *Draft) AddOrUpdateLine(v *catalog.ProductVariant, unitCount, cartonCount int, tier Tier) (LineItem, error) {
	if v == nil {
		return LineItem{}, shared.NewValidationError("variant", "is required")
	}
	if unitCount < 1 {
		return LineItem{}, shared.NewValidationError("unit_count", "must be at least 1")
	}
	if cartonCount < 1 {
		return LineItem{}, shared.NewValidationError("carton_count", "must be at least 1")
	}
	if !tier.Valid() {
		return LineItem{}, shared.NewValidationError("pricing_tier", "unknown tier")
	}

	price := PriceFor(v, tier)

	if idx := d.indexOf(v.ProductID, v.ID); idx >= 0 {
		line := &d.lines[idx]
		line.UnitCount = unitCount
		line.CartonCount = cartonCount
		line.UnitPrice = price
		line.recompute()
		return *line, nil
	}

	line := LineItem{
		ProductID:      v.ProductID,
		VariantID:      v.ID,
		PackingSize:    v.PackingSize,
		Unit:           v.Unit,
		UnitCount:      unitCount,
		CartonCount:    cartonCount,
		UnitPrice:      price,
		TaxRatePercent: v.TaxRatePercent,
	}
	line.recompute()
	d.lines = append(d.lines, line)
	return line, nil
}

// OverrideTaxRate changes one line's tax rate independently of its variant
// default and recomputes that line only.
func (d *Draft) OverrideTaxRate(productID, variantID int64, taxRatePercent float64) (LineItem, error) {
	if taxRatePercent < 0 || taxRatePercent > 100 {
		return LineItem{}, shared.NewValidationError("tax_rate_percent", "must be between 0 and 100")
	}
	idx := d.indexOf(productID, variantID)
	if idx < 0 {
		return LineItem{}, shared.ErrNotFound
	}
	line := &d.lines[idx]
	line.TaxRatePercent = taxRatePercent
	line.recompute()
	return *line, nil
}

// RemoveLine deletes a line by identity. Removing an absent line is a no-op;
// sibling lines are never recomputed.
func (d *Draft) RemoveLine(productID, variantID int64) {
	idx := d.indexOf(productID, variantID)
	if idx < 0 {
		return
	}
	d.lines = append(d.lines[:idx], d.lines[idx+1:]...)
}

func (d *Draft) indexOf(productID, variantID int64) int {
	for i, line := range d.lines {
		if line.ProductID == productID && line.VariantID == variantID {
			return i
		}
	}
	return -1
}
