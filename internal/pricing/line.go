package pricing

// LineItem is one priced row of a draft or stored order. Quantity, TaxAmount
// and LineTotal are derived; they are recomputed whenever unit count, carton
// count or the tax rate changes and are never edited independently.
type LineItem struct {
	ProductID      int64   `json:"product_id"`
	VariantID      int64   `json:"variant_id"`
	PackingSize    string  `json:"packing_size"`
	Unit           string  `json:"unit"`
	UnitCount      int     `json:"unit_count"`
	CartonCount    int     `json:"carton_count"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	TaxAmount      float64 `json:"tax_amount"`
	LineTotal      float64 `json:"line_total"`
}

// CalculateLineAmounts computes the derived amounts for a line. The divisor
// is the literal 100, so the arithmetic cannot fault; a zero tax rate simply
// yields a zero tax amount.
func CalculateLineAmounts(unitPrice float64, quantity int, taxRatePercent float64) (taxAmount, lineTotal float64) {
	gross := unitPrice * float64(quantity)
	taxAmount = gross * taxRatePercent / 100
	lineTotal = gross + taxAmount
	return
}

// recompute refreshes every derived field from the line's factors.
func (li *LineItem) recompute() {
	li.Quantity = li.UnitCount * li.CartonCount
	li.TaxAmount, li.LineTotal = CalculateLineAmounts(li.UnitPrice, li.Quantity, li.TaxRatePercent)
}

// Gross returns the tax-exclusive amount of the line.
func (li LineItem) Gross() float64 {
	return li.UnitPrice * float64(li.Quantity)
}
