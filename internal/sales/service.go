package sales

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/pricing"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// VariantResolver loads the catalog variants referenced by a draft.
type VariantResolver interface {
	ResolveVariants(ctx context.Context, ids []int64) (map[int64]*catalog.ProductVariant, error)
}

// PaymentRecorder creates and inspects order-linked payment records.
type PaymentRecorder interface {
	Create(ctx context.Context, in payment.CreateInput) (*payment.Record, error)
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
}

// Service handles customer order business logic.
type Service struct {
	repo     Repository
	variants VariantResolver
	payments PaymentRecorder
	notifier payment.BalanceNotifier
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo Repository, variants VariantResolver, payments PaymentRecorder, notifier payment.BalanceNotifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, variants: variants, payments: payments, notifier: notifier, logger: logger}
}

// Preview prices a draft without persisting anything. The UI calls this on
// every edit to refresh line amounts and the round-off suggestion.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error) {
	if err := req.PricingTier.ValidateSales(); err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, req.Items, req.PricingTier)
	if err != nil {
		return nil, err
	}
	return &PreviewResponse{
		Items:  lines,
		Totals: pricing.Aggregate(lines, req.RoundOff),
	}, nil
}

// Create submits a draft: prices it, persists order and lines atomically,
// then records the auto-generated payment. The order is durable before the
// payment step runs; a payment failure is returned as PaymentPendingError so
// the caller can retry just that step.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.CustomerID == 0 {
		return nil, shared.NewValidationError("customer_id", "is required")
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("items", "must not be empty")
	}
	if err := req.PricingTier.ValidateSales(); err != nil {
		return nil, err
	}
	if !req.PaymentStatus.Valid() {
		return nil, shared.NewValidationError("payment_status", "must be paid, unpaid or partial")
	}
	if _, generates := payment.DeriveType(req.PaymentStatus); generates {
		if err := req.PaymentMode.Validate(); err != nil {
			return nil, err
		}
	}

	lines, err := s.buildLines(ctx, req.Items, req.PricingTier)
	if err != nil {
		return nil, err
	}
	totals := pricing.Aggregate(lines, req.RoundOff)

	now := time.Now()
	captureDate := req.CaptureDate
	if captureDate.IsZero() {
		captureDate = now
	}
	order := Order{
		Number:        newOrderNumber(),
		CustomerID:    req.CustomerID,
		PricingTier:   req.PricingTier,
		Subtotal:      totals.Subtotal,
		TotalTax:      totals.TotalTax,
		RoundOff:      totals.RoundOff,
		Total:         totals.Total,
		PaymentStatus: req.PaymentStatus,
		CaptureDate:   captureDate,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var orderID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, order)
		if err != nil {
			return err
		}
		orderID = id
		for _, line := range lines {
			if err := repo.InsertLine(ctx, id, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBalance(ctx, req.CustomerID)

	// Order is committed; the payment record comes second. Failure here is
	// a partial, surfaced state, never a rollback.
	if err := s.recordOrderPayment(ctx, orderID, order, req.PaymentMode); err != nil {
		return nil, &shared.PaymentPendingError{OrderID: orderID, Err: err}
	}

	return s.repo.Get(ctx, orderID)
}

// RetryPayment re-runs only the payment step of a submitted order after a
// partial failure. It is a no-op error if the record already exists.
func (s *Service) RetryPayment(ctx context.Context, orderID int64, mode payment.Mode) (*Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, generates := payment.DeriveType(order.PaymentStatus); !generates {
		return nil, shared.NewValidationError("payment_status", "unpaid orders have no payment to retry")
	}
	exists, err := s.payments.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewValidationError("order", "payment record already exists")
	}
	if err := s.recordOrderPayment(ctx, orderID, *order, mode); err != nil {
		return nil, &shared.PaymentPendingError{OrderID: orderID, Err: err}
	}
	return order, nil
}

// Update is the explicit edit flow: the submitted item list replaces the
// stored one and every derived field is recomputed from it.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("items", "must not be empty")
	}

	lines, err := s.buildLines(ctx, req.Items, existing.PricingTier)
	if err != nil {
		return nil, err
	}
	totals := pricing.Aggregate(lines, req.RoundOff)

	existing.Subtotal = totals.Subtotal
	existing.TotalTax = totals.TotalTax
	existing.RoundOff = totals.RoundOff
	existing.Total = totals.Total
	if !req.CaptureDate.IsZero() {
		existing.CaptureDate = req.CaptureDate
	}
	if req.Notes != "" {
		existing.Notes = req.Notes
	}
	existing.UpdatedAt = time.Now()

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateTotals(ctx, *existing); err != nil {
			return err
		}
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}
		for _, line := range lines {
			if err := repo.InsertLine(ctx, id, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBalance(ctx, existing.CustomerID)
	return s.repo.Get(ctx, id)
}

// Get returns one order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns filtered orders plus the total row count.
func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// ListByCustomer returns the customer's full billing history.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// BilledTotals returns the customer's order totals for balance reconciliation.
func (s *Service) BilledTotals(ctx context.Context, customerID int64) ([]float64, error) {
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	totals := make([]float64, 0, len(orders))
	for _, o := range orders {
		totals = append(totals, o.Total)
	}
	return totals, nil
}

func (s *Service) buildLines(ctx context.Context, specs []pricing.ItemSpec, tier pricing.Tier) ([]pricing.LineItem, error) {
	ids := make([]int64, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.VariantID)
	}
	variants, err := s.variants.ResolveVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	return pricing.BuildLines(variants, specs, tier)
}

func (s *Service) recordOrderPayment(ctx context.Context, orderID int64, order Order, mode payment.Mode) error {
	paymentType, generates := payment.DeriveType(order.PaymentStatus)
	if !generates {
		return nil
	}
	refOrderID := orderID
	_, err := s.payments.Create(ctx, payment.CreateInput{
		CounterpartyID:   order.CustomerID,
		CounterpartyType: payment.CounterpartyCustomer,
		Amount:           order.Total,
		PaymentType:      paymentType,
		PaymentMode:      mode,
		RefOrderID:       &refOrderID,
		CaptureDate:      order.CaptureDate,
	})
	return err
}

func (s *Service) notifyBalance(ctx context.Context, customerID int64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBalanceChanged(ctx, payment.CounterpartyCustomer, customerID); err != nil && s.logger != nil {
		s.logger.Warn("balance refresh notify", slog.Any("error", err), slog.Int64("customer_id", customerID))
	}
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
