package payment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// RepositoryPort defines data access methods for payment records.
type RepositoryPort interface {
	Create(ctx context.Context, rec Record) (*Record, error)
	Get(ctx context.Context, id int64) (*Record, error)
	Update(ctx context.Context, rec Record) error
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
	ListByCounterparty(ctx context.Context, ctype CounterpartyType, counterpartyID int64) ([]Record, error)
}

// BalanceNotifier is told whenever a counterparty's payment history changed
// so the cached balance can be refreshed. Notification failures are logged,
// not returned: the balance is eventually consistent.
type BalanceNotifier interface {
	NotifyBalanceChanged(ctx context.Context, ctype CounterpartyType, counterpartyID int64) error
}

// Service handles payment ledger business logic.
type Service struct {
	repo     RepositoryPort
	notifier BalanceNotifier
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, notifier BalanceNotifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// CreateInput describes a payment to record.
type CreateInput struct {
	CounterpartyID   int64
	CounterpartyType CounterpartyType
	Amount           float64
	PaymentType      Type
	PaymentMode      Mode
	RefOrderID       *int64
	Notes            string
	CaptureDate      time.Time
}

func (in CreateInput) validate() error {
	if in.CounterpartyID == 0 {
		return shared.NewValidationError("counterparty_id", "is required")
	}
	if !in.CounterpartyType.Valid() {
		return shared.NewValidationError("counterparty_type", "must be customer or supplier")
	}
	if in.Amount <= 0 {
		return shared.NewValidationError("amount", "must be positive")
	}
	if !in.PaymentType.Valid() {
		return shared.NewValidationError("payment_type", "must be advance, full or partial")
	}
	return in.PaymentMode.Validate()
}

// Create records a payment and notifies the balance cache.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Record, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	captureDate := in.CaptureDate
	if captureDate.IsZero() {
		captureDate = now
	}

	rec, err := s.repo.Create(ctx, Record{
		Number:           newPaymentNumber(),
		CounterpartyID:   in.CounterpartyID,
		CounterpartyType: in.CounterpartyType,
		Amount:           in.Amount,
		PaymentType:      in.PaymentType,
		PaymentMode:      in.PaymentMode,
		RefOrderID:       in.RefOrderID,
		Notes:            in.Notes,
		CaptureDate:      captureDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, err
	}

	s.notifyBalance(ctx, rec.CounterpartyType, rec.CounterpartyID)
	return rec, nil
}

// UpdateInput carries the editable fields of a record.
type UpdateInput struct {
	Amount      float64
	PaymentType Type
	PaymentMode Mode
	Notes       string
	CaptureDate time.Time
}

// Update rewrites an existing record through the explicit edit flow.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Record, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, shared.NewValidationError("amount", "must be positive")
	}
	if !in.PaymentType.Valid() {
		return nil, shared.NewValidationError("payment_type", "must be advance, full or partial")
	}
	if err := in.PaymentMode.Validate(); err != nil {
		return nil, err
	}

	existing.Amount = in.Amount
	existing.PaymentType = in.PaymentType
	existing.PaymentMode = in.PaymentMode
	existing.Notes = in.Notes
	if !in.CaptureDate.IsZero() {
		existing.CaptureDate = in.CaptureDate
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	s.notifyBalance(ctx, existing.CounterpartyType, existing.CounterpartyID)
	return existing, nil
}

// ExistsForOrder reports whether an order already has a linked record, used
// to keep the payment retry step idempotent.
func (s *Service) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	return s.repo.ExistsForOrder(ctx, orderID)
}

// ListForCounterparty returns the payment history consumed by reconciliation.
func (s *Service) ListForCounterparty(ctx context.Context, ctype CounterpartyType, counterpartyID int64) ([]Record, error) {
	if !ctype.Valid() {
		return nil, shared.NewValidationError("counterparty_type", "must be customer or supplier")
	}
	return s.repo.ListByCounterparty(ctx, ctype, counterpartyID)
}

func (s *Service) notifyBalance(ctx context.Context, ctype CounterpartyType, counterpartyID int64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBalanceChanged(ctx, ctype, counterpartyID); err != nil && s.logger != nil {
		s.logger.Warn("balance refresh notify", slog.Any("error", err),
			slog.Int64("counterparty_id", counterpartyID))
	}
}

func newPaymentNumber() string {
	return "PAY-" + strings.ToUpper(uuid.NewString()[:8])
}
