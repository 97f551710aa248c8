// Package procurement handles purchase orders placed with suppliers. The
// flow mirrors customer orders but always prices at the purchase tier and
// settles against the supplier's balance.
package procurement

import (
	"time"

	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/pricing"
)

// PurchaseOrder is a submitted order to a supplier.
type PurchaseOrder struct {
	ID            int64                      `json:"id"`
	Number        string                     `json:"number"`
	SupplierID    int64                      `json:"supplier_id"`
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

// CreatePORequest is the purchase order submission payload. There is no
// tier field: purchase orders always use the variant's purchase price.
type CreatePORequest struct {
	SupplierID    int64                      `json:"supplier_id"`
	Items         []pricing.ItemSpec         `json:"items"`
	RoundOff      pricing.RoundOff           `json:"round_off"`
	PaymentStatus payment.OrderPaymentStatus `json:"payment_status"`
	PaymentMode   payment.Mode               `json:"payment_mode"`
	CaptureDate   time.Time                  `json:"capture_date"`
	Notes         string                     `json:"notes,omitempty"`
}

// ListPORequest filters the purchase order listing.
type ListPORequest struct {
	SupplierID int64
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// UpdatePORequest replaces the item list and recomputes derived fields.
type UpdatePORequest struct {
	Items       []pricing.ItemSpec `json:"items"`
	RoundOff    pricing.RoundOff   `json:"round_off"`
	CaptureDate time.Time          `json:"capture_date"`
	Notes       string             `json:"notes,omitempty"`
}
