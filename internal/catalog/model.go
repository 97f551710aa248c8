package catalog

import "time"

// ProductVariant describes one packing-size variant of a product together
// with its pricing attributes. The price ordering invariant
// (mrp > retail > wholesale > purchase) is enforced when the catalog record
// is created; the pricing engine assumes it and does not re-validate.
type ProductVariant struct {
	ID             int64     `json:"id"`
	ProductID      int64     `json:"product_id"`
	PackingSize    string    `json:"packing_size"`
	Unit           string    `json:"unit"`
	MRP            float64   `json:"mrp"`
	RetailPrice    float64   `json:"retail_price"`
	WholesalePrice float64   `json:"wholesale_price"`
	PurchasePrice  float64   `json:"purchase_price"`
	TaxRatePercent float64   `json:"tax_rate_percent"`
	MinStockLevel  int       `json:"min_stock_level"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
