package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/Ramani888/abwa-sub000/internal/payment"
)

type stubRefresher struct {
	calls []BalanceRefreshPayload
	fail  error
}

func (s *stubRefresher) Refresh(ctx context.Context, ctype payment.CounterpartyType, counterpartyID int64) error {
	if s.fail != nil {
		return s.fail
	}
	s.calls = append(s.calls, BalanceRefreshPayload{CounterpartyType: ctype, CounterpartyID: counterpartyID})
	return nil
}

func TestBalanceRefreshHandler(t *testing.T) {
	refresher := &stubRefresher{}
	handler := NewBalanceRefreshHandler(refresher, slog.Default())

	task, err := NewBalanceRefreshTask(BalanceRefreshPayload{
		CounterpartyType: payment.CounterpartyCustomer,
		CounterpartyID:   42,
	})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, refresher.calls, 1)
	require.Equal(t, int64(42), refresher.calls[0].CounterpartyID)
}

func TestBalanceRefreshHandlerSkipsMalformedPayload(t *testing.T) {
	refresher := &stubRefresher{}
	handler := NewBalanceRefreshHandler(refresher, slog.Default())

	err := handler(context.Background(), asynq.NewTask(TaskBalanceRefresh, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = handler(context.Background(), asynq.NewTask(TaskBalanceRefresh, []byte(`{"counterparty_type":"vendor","counterparty_id":1}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, refresher.calls)
}

func TestBalanceRefreshHandlerPropagatesFailure(t *testing.T) {
	refresher := &stubRefresher{fail: errors.New("redis down")}
	handler := NewBalanceRefreshHandler(refresher, slog.Default())

	task, err := NewBalanceRefreshTask(BalanceRefreshPayload{
		CounterpartyType: payment.CounterpartyCustomer,
		CounterpartyID:   42,
	})
	require.NoError(t, err)
	require.Error(t, handler(context.Background(), task))
}
