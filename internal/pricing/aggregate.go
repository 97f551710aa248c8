package pricing

import (
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// RoundOff carries the manual round-off state of a draft. Touched records
// whether the user ever edited the field, which is what distinguishes "wants
// exactly zero" from "never touched it" when deciding whether the suggested
// value applies.
type RoundOff struct {
	Value   float64 `json:"value"`
	Touched bool    `json:"touched"`
}

// Totals is the aggregation result for one item set.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	TotalTax     float64 `json:"total_tax"`
	AutoRoundOff float64 `json:"auto_round_off"`
	RoundOff     float64 `json:"round_off"`
	Total        float64 `json:"total"`
}

// Aggregate folds the items into subtotal, tax and total. AutoRoundOff is
// always recomputed from the current items as a suggestion; it is applied
// only while the manual value is untouched. A touched manual value, zero
// included, is never overwritten by recomputation.
func Aggregate(items []LineItem, manual RoundOff) Totals {
	var subtotal, totalTax float64
	for _, item := range items {
		subtotal += item.Gross()
		totalTax += item.TaxAmount
	}

	preRound := subtotal + totalTax
	autoRoundOff := shared.RoundToRupee(preRound) - preRound

	roundOff := autoRoundOff
	if manual.Touched {
		roundOff = manual.Value
	}

	return Totals{
		Subtotal:     subtotal,
		TotalTax:     totalTax,
		AutoRoundOff: autoRoundOff,
		RoundOff:     roundOff,
		Total:        subtotal + totalTax + roundOff,
	}
}
