// Package sales handles customer orders: pricing a submitted draft through
// the pricing engine, persisting it, and generating its payment record.
package sales

import (
	"time"

	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/pricing"
)

// Order is a submitted customer order. Derived amounts are frozen at
// submission; the explicit edit flow recomputes them from the new item list.
type Order struct {
	ID            int64                      `json:"id"`
	Number        string                     `json:"number"`
	CustomerID    int64                      `json:"customer_id"`
	PricingTier   pricing.Tier               `json:"pricing_tier"`
	Items         []pricing.LineItem         `json:"items,omitempty"`
	Subtotal      float64                    `json:"subtotal"`
	TotalTax      float64                    `json:"total_tax"`
	RoundOff      float64                    `json:"round_off"`
	Total         float64                    `json:"total"`
	PaymentStatus payment.OrderPaymentStatus `json:"payment_status"`
	CaptureDate   time.Time                  `json:"capture_date"`
	Notes         string                     `json:"notes,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}
