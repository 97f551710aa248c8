// Package ledger reconciles order billing against payment history to
// produce per-counterparty balances. Balances are derived on demand from
// the two source ledgers rather than maintained as running totals, so a
// corrected order or payment immediately corrects the balance too.
package ledger

import (
	"time"

	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// BalanceState classifies the sign of a reconciled balance.
type BalanceState string

const (
	// StateDue means the counterparty still owes money.
	StateDue BalanceState = "due"
	// StateCredit means the counterparty has overpaid.
	StateCredit BalanceState = "credit"
	// StateSettled means billed and paid match to the paise.
	StateSettled BalanceState = "settled"
)

// Balance is the reconciliation result for one counterparty.
type Balance struct {
	CounterpartyType payment.CounterpartyType `json:"counterparty_type"`
	CounterpartyID   int64                    `json:"counterparty_id"`
	TotalBilled      float64                  `json:"total_billed"`
	TotalPaid        float64                  `json:"total_paid"`
	Balance          float64                  `json:"balance"`
	State            BalanceState             `json:"state"`
	OrderCount       int                      `json:"order_count"`
	PaymentCount     int                      `json:"payment_count"`
	ComputedAt       time.Time                `json:"computed_at"`
}

// Reconcile folds the billed totals and payment records of a single
// counterparty into a Balance. Billed minus paid: positive is money owed
// to us (or owed by us, on the supplier side), negative is credit carried
// forward. Sums are rounded to the paise before classification so float
// dust never flips a settled account to due.
func Reconcile(ctype payment.CounterpartyType, counterpartyID int64, billed []float64, payments []payment.Record) Balance {
	var totalBilled, totalPaid float64
	for _, amount := range billed {
		totalBilled += amount
	}
	var paymentCount int
	for _, rec := range payments {
		// records for other counterparties may slip in when the caller
		// passes an unfiltered history; they never count here
		if rec.CounterpartyID != 0 && rec.CounterpartyID != counterpartyID {
			continue
		}
		totalPaid += rec.Amount
		paymentCount++
	}

	balance := shared.RoundToPaise(totalBilled - totalPaid)

	state := StateSettled
	switch {
	case balance > 0:
		state = StateDue
	case balance < 0:
		state = StateCredit
	}

	return Balance{
		CounterpartyType: ctype,
		CounterpartyID:   counterpartyID,
		TotalBilled:      totalBilled,
		TotalPaid:        totalPaid,
		Balance:          balance,
		State:            state,
		OrderCount:       len(billed),
		PaymentCount:     paymentCount,
		ComputedAt:       time.Now(),
	}
}
