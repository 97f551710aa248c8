package pricing

import (
	"fmt"

	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// ItemSpec is one requested row of an order: which variant, how many, and an
// optional per-line tax override replacing the variant's default rate.
type ItemSpec struct {
	VariantID       int64    `json:"variant_id"`
	UnitCount       int      `json:"unit_count"`
	CartonCount     int      `json:"carton_count"`
	TaxRateOverride *float64 `json:"tax_rate_percent,omitempty"`
}

// BuildLines prices the requested items into a line set under one tier.
// Specs naming the same variant merge into a single line, later counts
// winning, exactly as interactive re-adds do. Unknown variants and invalid
// counts reject the whole build.
func BuildLines(variants map[int64]*catalog.ProductVariant, specs []ItemSpec, tier Tier) ([]LineItem, error) {
	draft := NewDraft()
	for _, spec := range specs {
		v, ok := variants[spec.VariantID]
		if !ok {
			return nil, shared.NewValidationError("variant_id", fmt.Sprintf("unknown variant %d", spec.VariantID))
		}
		if _, err := draft.AddOrUpdateLine(v, spec.UnitCount, spec.CartonCount, tier); err != nil {
			return nil, err
		}
		if spec.TaxRateOverride != nil {
			if _, err := draft.OverrideTaxRate(v.ProductID, v.ID, *spec.TaxRateOverride); err != nil {
				return nil, err
			}
		}
	}
	return draft.Lines(), nil
}
