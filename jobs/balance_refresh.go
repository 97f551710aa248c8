package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/Ramani888/abwa-sub000/internal/payment"
)

// BalanceRefresher recomputes and re-caches one counterparty balance.
// The ledger service satisfies it.
type BalanceRefresher interface {
	Refresh(ctx context.Context, ctype payment.CounterpartyType, counterpartyID int64) error
}

// NewBalanceRefreshHandler builds the Asynq handler for TaskBalanceRefresh.
func NewBalanceRefreshHandler(refresher BalanceRefresher, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload BalanceRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if !payload.CounterpartyType.Valid() || payload.CounterpartyID == 0 {
			return asynq.SkipRetry
		}
		if err := refresher.Refresh(ctx, payload.CounterpartyType, payload.CounterpartyID); err != nil {
			logger.Warn("balance refresh",
				slog.Any("error", err),
				slog.String("counterparty_type", string(payload.CounterpartyType)),
				slog.Int64("counterparty_id", payload.CounterpartyID))
			return err
		}
		return nil
	}
}
