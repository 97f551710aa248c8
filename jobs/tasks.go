// Package jobs hosts the background queue: task definitions, the Asynq
// worker shell and the enqueue client used by the HTTP services.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/Ramani888/abwa-sub000/internal/payment"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBalanceRefresh recomputes one counterparty balance after an
	// order or payment mutation.
	TaskBalanceRefresh = "balance:refresh"
)

// BalanceRefreshPayload identifies the counterparty whose balance is stale.
type BalanceRefreshPayload struct {
	CounterpartyType payment.CounterpartyType `json:"counterparty_type"`
	CounterpartyID   int64                    `json:"counterparty_id"`
}

// NewBalanceRefreshTask constructs an Asynq task.
func NewBalanceRefreshTask(payload BalanceRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalanceRefresh, data), nil
}
