package pricing

import (
	"errors"
	"testing"

	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

func sampleVariant() *catalog.ProductVariant {
	return &catalog.ProductVariant{
		ID:             11,
		ProductID:      7,
		PackingSize:    "500g",
		Unit:           "pkt",
		MRP:            1000,
		RetailPrice:    850,
		WholesalePrice: 800,
		PurchasePrice:  700,
		TaxRatePercent: 5,
	}
}

func TestAddLineComputesQuantityAndAmounts(t *testing.T) {
	d := NewDraft()
	line, err := d.AddOrUpdateLine(sampleVariant(), 2, 3, TierRetail)
	if err != nil {
		t.Fatalf("AddOrUpdateLine returned error: %v", err)
	}
	if line.Quantity != 6 {
		t.Fatalf("expected quantity 6 got %d", line.Quantity)
	}
	if got := line.Gross(); got != 5100 {
		t.Fatalf("expected gross 5100 got %.2f", got)
	}
	if line.TaxAmount != 255 {
		t.Fatalf("expected tax 255 got %.2f", line.TaxAmount)
	}
	if line.LineTotal != 5355 {
		t.Fatalf("expected line total 5355 got %.2f", line.LineTotal)
	}
}

func TestAddLineSelectsPriceByTier(t *testing.T) {
	for tier, want := range map[Tier]float64{
		TierRetail:    850,
		TierWholesale: 800,
		TierPurchase:  700,
	} {
		d := NewDraft()
		line, err := d.AddOrUpdateLine(sampleVariant(), 1, 1, tier)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tier, err)
		}
		if line.UnitPrice != want {
			t.Fatalf("%s: expected unit price %.0f got %.2f", tier, want, line.UnitPrice)
		}
	}
}

func TestAddSameVariantMergesLine(t *testing.T) {
	d := NewDraft()
	if _, err := d.AddOrUpdateLine(sampleVariant(), 2, 3, TierRetail); err != nil {
		t.Fatalf("first add: %v", err)
	}
	line, err := d.AddOrUpdateLine(sampleVariant(), 4, 1, TierRetail)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("expected one line after merge got %d", d.Len())
	}
	if line.UnitCount != 4 || line.CartonCount != 1 || line.Quantity != 4 {
		t.Fatalf("expected second call counts in effect, got %d x %d", line.UnitCount, line.CartonCount)
	}
	if line.TaxAmount != 850*4*0.05 {
		t.Fatalf("merge did not recompute tax: %.2f", line.TaxAmount)
	}
}

func TestMergeKeepsTaxOverride(t *testing.T) {
	d := NewDraft()
	v := sampleVariant()
	if _, err := d.AddOrUpdateLine(v, 1, 1, TierRetail); err != nil {
		t.Fatal(err)
	}
	if _, err := d.OverrideTaxRate(v.ProductID, v.ID, 12); err != nil {
		t.Fatal(err)
	}
	line, err := d.AddOrUpdateLine(v, 2, 1, TierRetail)
	if err != nil {
		t.Fatal(err)
	}
	if line.TaxRatePercent != 12 {
		t.Fatalf("expected overridden rate to survive merge, got %.1f", line.TaxRatePercent)
	}
	if line.TaxAmount != 850*2*0.12 {
		t.Fatalf("unexpected tax amount %.2f", line.TaxAmount)
	}
}

func TestAddLineRejectsNonPositiveCounts(t *testing.T) {
	d := NewDraft()
	if _, err := d.AddOrUpdateLine(sampleVariant(), 0, 3, TierRetail); !errors.Is(err, shared.ErrValidation) {
		t.Fatalf("expected validation error for zero unit count, got %v", err)
	}
	if _, err := d.AddOrUpdateLine(sampleVariant(), 2, -1, TierRetail); !errors.Is(err, shared.ErrValidation) {
		t.Fatalf("expected validation error for negative carton count, got %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("rejected add must leave draft unchanged, got %d lines", d.Len())
	}
}

func TestOverrideTaxRateRecomputesOneLineOnly(t *testing.T) {
	d := NewDraft()
	v1 := sampleVariant()
	v2 := sampleVariant()
	v2.ID = 12
	v2.PackingSize = "1kg"
	if _, err := d.AddOrUpdateLine(v1, 2, 3, TierRetail); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddOrUpdateLine(v2, 1, 1, TierRetail); err != nil {
		t.Fatal(err)
	}

	updated, err := d.OverrideTaxRate(v1.ProductID, v1.ID, 18)
	if err != nil {
		t.Fatal(err)
	}
	if updated.TaxAmount != 5100*0.18 {
		t.Fatalf("expected recomputed tax %.2f got %.2f", 5100*0.18, updated.TaxAmount)
	}

	other := d.Lines()[1]
	if other.TaxRatePercent != 5 || other.TaxAmount != 850*0.05 {
		t.Fatalf("sibling line must be untouched, got rate %.1f tax %.2f", other.TaxRatePercent, other.TaxAmount)
	}
}

func TestOverrideTaxRateValidatesRange(t *testing.T) {
	d := NewDraft()
	v := sampleVariant()
	if _, err := d.AddOrUpdateLine(v, 1, 1, TierRetail); err != nil {
		t.Fatal(err)
	}
	if _, err := d.OverrideTaxRate(v.ProductID, v.ID, 101); !errors.Is(err, shared.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveLine(t *testing.T) {
	d := NewDraft()
	v := sampleVariant()
	if _, err := d.AddOrUpdateLine(v, 2, 3, TierRetail); err != nil {
		t.Fatal(err)
	}
	d.RemoveLine(v.ProductID, v.ID)
	if d.Len() != 0 {
		t.Fatalf("expected empty draft after remove, got %d lines", d.Len())
	}
	// removing again is a no-op
	d.RemoveLine(v.ProductID, v.ID)
}

func TestUpdateCountsRecomputesConsistently(t *testing.T) {
	d := NewDraft()
	v := sampleVariant()
	for _, counts := range [][2]int{{1, 1}, {3, 2}, {5, 4}} {
		line, err := d.AddOrUpdateLine(v, counts[0], counts[1], TierRetail)
		if err != nil {
			t.Fatal(err)
		}
		wantQty := counts[0] * counts[1]
		if line.Quantity != wantQty {
			t.Fatalf("quantity %d, want %d", line.Quantity, wantQty)
		}
		wantTax := 850 * float64(wantQty) * 5 / 100
		if line.TaxAmount != wantTax {
			t.Fatalf("tax %.2f, want %.2f", line.TaxAmount, wantTax)
		}
		if line.LineTotal != 850*float64(wantQty)+wantTax {
			t.Fatalf("line total %.2f inconsistent", line.LineTotal)
		}
	}
}
