package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

type stubBilled struct {
	totals []float64
	calls  int
}

func (s *stubBilled) BilledTotals(ctx context.Context, counterpartyID int64) ([]float64, error) {
	s.calls++
	return s.totals, nil
}

type stubHistory struct {
	records []payment.Record
	calls   int
}

func (s *stubHistory) ListForCounterparty(ctx context.Context, ctype payment.CounterpartyType, counterpartyID int64) ([]payment.Record, error) {
	s.calls++
	return s.records, nil
}

func newTestCache(t *testing.T) *Cache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, time.Minute)
}

func TestBalanceReconcilesCustomer(t *testing.T) {
	customers := &stubBilled{totals: []float64{6155, 5845, 6000}}
	history := &stubHistory{records: payments(5000, 7000)}
	svc := NewService(customers, &stubBilled{}, history, newTestCache(t), nil)

	view, err := svc.Balance(context.Background(), payment.CounterpartyCustomer, 42)
	require.NoError(t, err)
	require.Equal(t, 6000.0, view.Balance.Balance)
	require.Equal(t, StateDue, view.State)
	require.Equal(t, "₹6,000.00", view.DisplayBalance)
}

func TestBalancePicksSupplierSource(t *testing.T) {
	customers := &stubBilled{totals: []float64{99999}}
	suppliers := &stubBilled{totals: []float64{5000}}
	history := &stubHistory{records: payments(7000)}
	svc := NewService(customers, suppliers, history, newTestCache(t), nil)

	view, err := svc.Balance(context.Background(), payment.CounterpartySupplier, 9)
	require.NoError(t, err)
	require.Equal(t, -2000.0, view.Balance.Balance)
	require.Equal(t, StateCredit, view.State)
	require.Zero(t, customers.calls)
	require.Equal(t, 1, suppliers.calls)
}

func TestBalanceServedFromCache(t *testing.T) {
	customers := &stubBilled{totals: []float64{100}}
	history := &stubHistory{}
	svc := NewService(customers, &stubBilled{}, history, newTestCache(t), nil)
	ctx := context.Background()

	_, err := svc.Balance(ctx, payment.CounterpartyCustomer, 42)
	require.NoError(t, err)
	_, err = svc.Balance(ctx, payment.CounterpartyCustomer, 42)
	require.NoError(t, err)
	require.Equal(t, 1, customers.calls)
}

func TestRefreshInvalidatesCache(t *testing.T) {
	customers := &stubBilled{totals: []float64{100}}
	history := &stubHistory{}
	svc := NewService(customers, &stubBilled{}, history, newTestCache(t), nil)
	ctx := context.Background()

	_, err := svc.Balance(ctx, payment.CounterpartyCustomer, 42)
	require.NoError(t, err)

	customers.totals = []float64{100, 250}
	require.NoError(t, svc.Refresh(ctx, payment.CounterpartyCustomer, 42))

	view, err := svc.Balance(ctx, payment.CounterpartyCustomer, 42)
	require.NoError(t, err)
	require.Equal(t, 350.0, view.TotalBilled)
}

func TestBalanceValidation(t *testing.T) {
	svc := NewService(&stubBilled{}, &stubBilled{}, &stubHistory{}, newTestCache(t), nil)
	ctx := context.Background()

	_, err := svc.Balance(ctx, "vendor", 42)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Balance(ctx, payment.CounterpartyCustomer, 0)
	require.ErrorIs(t, err, shared.ErrValidation)
}
