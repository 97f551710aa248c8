package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// BilledSource yields the billed document totals of one counterparty.
// The sales and procurement packages each provide one side.
type BilledSource interface {
	BilledTotals(ctx context.Context, counterpartyID int64) ([]float64, error)
}

// PaymentSource yields the payment history of one counterparty.
type PaymentSource interface {
	ListForCounterparty(ctx context.Context, ctype payment.CounterpartyType, counterpartyID int64) ([]payment.Record, error)
}

// BalanceView is a Balance decorated with display strings for the UI.
type BalanceView struct {
	Balance
	DisplayBilled  string `json:"display_billed"`
	DisplayPaid    string `json:"display_paid"`
	DisplayBalance string `json:"display_balance"`
}

// Service computes and caches counterparty balances.
type Service struct {
	customers BilledSource
	suppliers BilledSource
	payments  PaymentSource
	cache     *Cache
	logger    *slog.Logger
	group     singleflight.Group
}

// NewService builds a Service instance.
func NewService(customers, suppliers BilledSource, payments PaymentSource, cache *Cache, logger *slog.Logger) *Service {
	return &Service{customers: customers, suppliers: suppliers, payments: payments, cache: cache, logger: logger}
}

// Balance returns the reconciled balance for one counterparty, served from
// cache when possible. Concurrent requests for the same counterparty are
// collapsed into a single computation.
func (s *Service) Balance(ctx context.Context, ctype payment.CounterpartyType, counterpartyID int64) (*BalanceView, error) {
	if !ctype.Valid() {
		return nil, shared.NewValidationError("counterparty_type", "must be customer or supplier")
	}
	if counterpartyID == 0 {
		return nil, shared.NewValidationError("counterparty_id", "is required")
	}

	flightKey := string(ctype) + ":" + strconv.FormatInt(counterpartyID, 10)
	result, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		key, err := s.cache.BuildKey(ctx, "ledger", "balance", string(ctype), strconv.FormatInt(counterpartyID, 10))
		if err != nil {
			return nil, err
		}
		var balance Balance
		err = s.cache.FetchJSON(ctx, key, &balance, func(ctx context.Context) (interface{}, error) {
			return s.compute(ctx, ctype, counterpartyID)
		})
		if err != nil {
			return nil, err
		}
		return &balance, nil
	})
	if err != nil {
		return nil, err
	}

	view := newBalanceView(*result.(*Balance))
	return &view, nil
}

// Refresh invalidates cached balances and recomputes the given counterparty
// so the next read is warm. The worker calls this off an order or payment
// mutation.
func (s *Service) Refresh(ctx context.Context, ctype payment.CounterpartyType, counterpartyID int64) error {
	if err := s.cache.Bump(ctx); err != nil {
		return fmt.Errorf("ledger: bump cache: %w", err)
	}
	if _, err := s.Balance(ctx, ctype, counterpartyID); err != nil {
		return fmt.Errorf("ledger: warm balance: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("balance refreshed",
			slog.String("counterparty_type", string(ctype)),
			slog.Int64("counterparty_id", counterpartyID))
	}
	return nil
}

func (s *Service) compute(ctx context.Context, ctype payment.CounterpartyType, counterpartyID int64) (Balance, error) {
	source := s.customers
	if ctype == payment.CounterpartySupplier {
		source = s.suppliers
	}
	billed, err := source.BilledTotals(ctx, counterpartyID)
	if err != nil {
		return Balance{}, fmt.Errorf("ledger: billed totals: %w", err)
	}
	records, err := s.payments.ListForCounterparty(ctx, ctype, counterpartyID)
	if err != nil {
		return Balance{}, fmt.Errorf("ledger: payment history: %w", err)
	}
	return Reconcile(ctype, counterpartyID, billed, records), nil
}

func newBalanceView(b Balance) BalanceView {
	return BalanceView{
		Balance:        b,
		DisplayBilled:  shared.FormatRupees(b.TotalBilled),
		DisplayPaid:    shared.FormatRupees(b.TotalPaid),
		DisplayBalance: shared.FormatRupees(b.Balance),
	}
}
