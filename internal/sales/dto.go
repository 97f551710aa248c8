package sales

import (
	"time"

	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/pricing"
)

// CreateOrderRequest is the submission payload of a customer order draft.
type CreateOrderRequest struct {
	CustomerID    int64                      `json:"customer_id"`
	PricingTier   pricing.Tier               `json:"pricing_tier"`
	Items         []pricing.ItemSpec         `json:"items"`
	RoundOff      pricing.RoundOff           `json:"round_off"`
	PaymentStatus payment.OrderPaymentStatus `json:"payment_status"`
	PaymentMode   payment.Mode               `json:"payment_mode"`
	CaptureDate   time.Time                  `json:"capture_date"`
	Notes         string                     `json:"notes,omitempty"`
}

// UpdateOrderRequest carries the edit flow payload. The item list replaces
// the stored one and every derived field is recomputed from it.
type UpdateOrderRequest struct {
	Items       []pricing.ItemSpec `json:"items"`
	RoundOff    pricing.RoundOff   `json:"round_off"`
	CaptureDate time.Time          `json:"capture_date"`
	Notes       string             `json:"notes,omitempty"`
}

// PreviewRequest prices a draft without persisting anything.
type PreviewRequest struct {
	PricingTier pricing.Tier       `json:"pricing_tier"`
	Items       []pricing.ItemSpec `json:"items"`
	RoundOff    pricing.RoundOff   `json:"round_off"`
}

// PreviewResponse returns the priced lines and totals for a draft.
type PreviewResponse struct {
	Items  []pricing.LineItem `json:"items"`
	Totals pricing.Totals     `json:"totals"`
}

// ListOrdersRequest filters the order listing.
type ListOrdersRequest struct {
	CustomerID int64
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}
