// Package payment keeps the flat ledger of payment records per counterparty.
// Records are immutable once created except through the explicit edit flow.
package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// CounterpartyType distinguishes the two sides the shop trades with.
type CounterpartyType string

const (
	CounterpartyCustomer CounterpartyType = "customer"
	CounterpartySupplier CounterpartyType = "supplier"
)

// Valid reports whether t is a known counterparty type.
func (t CounterpartyType) Valid() bool {
	return t == CounterpartyCustomer || t == CounterpartySupplier
}

// Type classifies a payment relative to its order.
type Type string

const (
	TypeAdvance Type = "advance"
	TypeFull    Type = "full"
	TypePartial Type = "partial"
)

// Valid reports whether p is a known payment type.
func (p Type) Valid() bool {
	return p == TypeAdvance || p == TypeFull || p == TypePartial
}

// OrderPaymentStatus is the payment state an order is submitted with.
type OrderPaymentStatus string

const (
	OrderPaid    OrderPaymentStatus = "paid"
	OrderUnpaid  OrderPaymentStatus = "unpaid"
	OrderPartial OrderPaymentStatus = "partial"
)

// Valid reports whether s is a known order payment status.
func (s OrderPaymentStatus) Valid() bool {
	return s == OrderPaid || s == OrderUnpaid || s == OrderPartial
}

// DeriveType maps an order's payment status to the payment type of its
// auto-generated record. Unpaid orders generate no record at all.
func DeriveType(s OrderPaymentStatus) (Type, bool) {
	switch s {
	case OrderPaid:
		return TypeFull, true
	case OrderPartial:
		return TypePartial, true
	default:
		return "", false
	}
}

// ModeKind enumerates the supported payment modes.
type ModeKind string

const (
	ModeCash   ModeKind = "cash"
	ModeCard   ModeKind = "card"
	ModeUPI    ModeKind = "upi"
	ModeNEFT   ModeKind = "neft_rtgs"
	ModeCheque ModeKind = "cheque"
	ModeOnline ModeKind = "online_payment"
)

// Mode is a tagged union: each kind carries at most one mode-specific
// reference, and only that reference appears on the wire. Cash carries none.
type Mode struct {
	Kind      ModeKind
	Reference string
}

// referenceFields maps each mode to its wire field name.
var referenceFields = map[ModeKind]string{
	ModeCard:   "card_number",
	ModeUPI:    "upi_transaction_id",
	ModeNEFT:   "bank_reference_number",
	ModeCheque: "cheque_number",
	ModeOnline: "gateway_transaction_id",
}

// Validate checks that the kind is known and the reference matches it.
func (m Mode) Validate() error {
	field, needsRef := referenceFields[m.Kind]
	if !needsRef {
		if m.Kind != ModeCash {
			return shared.NewValidationError("payment_mode", fmt.Sprintf("unknown mode %q", m.Kind))
		}
		if m.Reference != "" {
			return shared.NewValidationError("payment_mode", "cash carries no reference")
		}
		return nil
	}
	if m.Reference == "" {
		return shared.NewValidationError(field, "is required for mode "+string(m.Kind))
	}
	return nil
}

// MarshalJSON emits the kind plus only the kind's own reference field.
func (m Mode) MarshalJSON() ([]byte, error) {
	out := map[string]string{"kind": string(m.Kind)}
	if field, ok := referenceFields[m.Kind]; ok && m.Reference != "" {
		out[field] = m.Reference
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the kind and selects the matching reference field.
// A reference belonging to a different mode rejects the record.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind := ModeKind(raw["kind"])
	ref := ""
	for k, field := range referenceFields {
		v, present := raw[field]
		if !present || v == "" {
			continue
		}
		if k != kind {
			return shared.NewValidationError(field, "does not belong to mode "+string(kind))
		}
		ref = v
	}
	m.Kind = kind
	m.Reference = ref
	return nil
}

// Record is one payment made by or to a counterparty, optionally linked to
// the order that generated it.
type Record struct {
	ID               int64            `json:"id"`
	CounterpartyID   int64            `json:"counterparty_id"`
	CounterpartyType CounterpartyType `json:"counterparty_type"`
	Amount           float64          `json:"amount"`
	PaymentType      Type             `json:"payment_type"`
	PaymentMode      Mode             `json:"payment_mode"`
	RefOrderID       *int64           `json:"ref_order_id,omitempty"`
	Number           string           `json:"number"`
	Notes            string           `json:"notes,omitempty"`
	CaptureDate      time.Time        `json:"capture_date"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
