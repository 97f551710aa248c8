package pricing

import (
	"testing"
)

func twoLineItems() []LineItem {
	// 850 x 6 @ 5% tax and 160 x 5 untaxed: subtotal 5900, tax 255.
	a := LineItem{UnitPrice: 850, UnitCount: 2, CartonCount: 3, TaxRatePercent: 5}
	a.recompute()
	b := LineItem{UnitPrice: 160, UnitCount: 5, CartonCount: 1}
	b.recompute()
	return []LineItem{a, b}
}

func TestAggregateWholeRupeeTotal(t *testing.T) {
	totals := Aggregate(twoLineItems(), RoundOff{})
	if totals.Subtotal != 5900 {
		t.Fatalf("expected subtotal 5900 got %.2f", totals.Subtotal)
	}
	if totals.TotalTax != 255 {
		t.Fatalf("expected tax 255 got %.2f", totals.TotalTax)
	}
	if totals.AutoRoundOff != 0 {
		t.Fatalf("whole-rupee total needs no round off, got %.4f", totals.AutoRoundOff)
	}
	if totals.Total != 6155 {
		t.Fatalf("expected total 6155 got %.2f", totals.Total)
	}
}

func TestAggregateSuggestsRoundOff(t *testing.T) {
	// 33.33 x 1 @ 5%: pre-round total 34.9965, suggestion rounds to 35.
	line := LineItem{UnitPrice: 33.33, UnitCount: 1, CartonCount: 1, TaxRatePercent: 5}
	line.recompute()

	totals := Aggregate([]LineItem{line}, RoundOff{})
	preRound := totals.Subtotal + totals.TotalTax
	if got := preRound + totals.AutoRoundOff; got != 35 {
		t.Fatalf("auto round off must land on a whole rupee, got %.4f", got)
	}
	if totals.RoundOff != totals.AutoRoundOff {
		t.Fatalf("untouched draft must apply the suggestion")
	}
	if totals.Total != 35 {
		t.Fatalf("expected total 35 got %.4f", totals.Total)
	}
}

func TestAggregateIdentityHolds(t *testing.T) {
	items := twoLineItems()
	for _, manual := range []RoundOff{
		{},
		{Value: 0, Touched: true},
		{Value: -0.75, Touched: true},
		{Value: 2.5, Touched: true},
	} {
		totals := Aggregate(items, manual)
		if totals.Total != totals.Subtotal+totals.TotalTax+totals.RoundOff {
			t.Fatalf("identity broken for %+v: %.4f != %.4f", manual,
				totals.Total, totals.Subtotal+totals.TotalTax+totals.RoundOff)
		}
	}
}

func TestTouchedManualRoundOffIsNeverOverwritten(t *testing.T) {
	items := twoLineItems()
	manual := RoundOff{Value: -1.5, Touched: true}

	totals := Aggregate(items, manual)
	if totals.RoundOff != -1.5 {
		t.Fatalf("expected manual value in effect, got %.2f", totals.RoundOff)
	}
	if totals.Total != 6155-1.5 {
		t.Fatalf("expected total %.2f got %.2f", 6155-1.5, totals.Total)
	}

	// Item changes recompute the suggestion but leave the manual value alone.
	extra := LineItem{UnitPrice: 10.4, UnitCount: 1, CartonCount: 1}
	extra.recompute()
	totals = Aggregate(append(items, extra), manual)
	if totals.RoundOff != -1.5 {
		t.Fatalf("manual value silently overwritten: %.2f", totals.RoundOff)
	}
}

func TestExplicitZeroRoundOffIsRespected(t *testing.T) {
	// 33.33 x 1 @ 5% would suggest a non-zero round off; a user who set the
	// field to zero keeps zero.
	line := LineItem{UnitPrice: 33.33, UnitCount: 1, CartonCount: 1, TaxRatePercent: 5}
	line.recompute()

	totals := Aggregate([]LineItem{line}, RoundOff{Value: 0, Touched: true})
	if totals.AutoRoundOff == 0 {
		t.Fatal("test setup: expected a non-zero suggestion")
	}
	if totals.RoundOff != 0 {
		t.Fatalf("explicit zero must win over the suggestion, got %.4f", totals.RoundOff)
	}
	if totals.Total != totals.Subtotal+totals.TotalTax {
		t.Fatalf("unexpected total %.4f", totals.Total)
	}
}

func TestAggregateEmptyItems(t *testing.T) {
	totals := Aggregate(nil, RoundOff{})
	if totals.Subtotal != 0 || totals.TotalTax != 0 || totals.Total != 0 {
		t.Fatalf("empty item set must aggregate to zero, got %+v", totals)
	}
}
