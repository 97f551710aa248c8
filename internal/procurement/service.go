package procurement

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

// Service handles purchase order business logic.
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

// Create submits a purchase order. Lines are always priced at the purchase
// tier; the payment sequencing matches customer orders: the PO commits
// first, a failed payment step surfaces as PaymentPendingError.
func (s *Service) Create(ctx context.Context, req CreatePORequest) (*PurchaseOrder, error) {
	if req.SupplierID == 0 {
		return nil, shared.NewValidationError("supplier_id", "is required")
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("items", "must not be empty")
	}
	if !req.PaymentStatus.Valid() {
		return nil, shared.NewValidationError("payment_status", "must be paid, unpaid or partial")
	}
	if _, generates := payment.DeriveType(req.PaymentStatus); generates {
		if err := req.PaymentMode.Validate(); err != nil {
			return nil, err
		}
	}

	lines, err := s.buildLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	totals := pricing.Aggregate(lines, req.RoundOff)

	now := time.Now()
	captureDate := req.CaptureDate
	if captureDate.IsZero() {
		captureDate = now
	}
	po := PurchaseOrder{
		Number:        newPONumber(),
		SupplierID:    req.SupplierID,
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

	var poID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, po)
		if err != nil {
			return err
		}
		poID = id
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

	s.notifyBalance(ctx, req.SupplierID)

	if err := s.recordPOPayment(ctx, poID, po, req.PaymentMode); err != nil {
		return nil, &shared.PaymentPendingError{OrderID: poID, Err: err}
	}

	return s.repo.Get(ctx, poID)
}

// RetryPayment re-runs only the payment step after a partial failure.
func (s *Service) RetryPayment(ctx context.Context, poID int64, mode payment.Mode) (*PurchaseOrder, error) {
	po, err := s.repo.Get(ctx, poID)
	if err != nil {
		return nil, err
	}
	if _, generates := payment.DeriveType(po.PaymentStatus); !generates {
		return nil, shared.NewValidationError("payment_status", "unpaid purchase orders have no payment to retry")
	}
	exists, err := s.payments.ExistsForOrder(ctx, poID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewValidationError("purchase_order", "payment record already exists")
	}
	if err := s.recordPOPayment(ctx, poID, *po, mode); err != nil {
		return nil, &shared.PaymentPendingError{OrderID: poID, Err: err}
	}
	return po, nil
}

// Update is the explicit edit flow; derived fields are recomputed from the
// replacement item list.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePORequest) (*PurchaseOrder, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("items", "must not be empty")
	}

	lines, err := s.buildLines(ctx, req.Items)
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

	s.notifyBalance(ctx, existing.SupplierID)
	return s.repo.Get(ctx, id)
}

// Get returns one purchase order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*PurchaseOrder, error) {
	return s.repo.Get(ctx, id)
}

// List returns purchase orders matching the filter.
func (s *Service) List(ctx context.Context, req ListPORequest) ([]PurchaseOrder, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// ListBySupplier returns the supplier's full billing history.
func (s *Service) ListBySupplier(ctx context.Context, supplierID int64) ([]PurchaseOrder, error) {
	return s.repo.ListBySupplier(ctx, supplierID)
}

// BilledTotals returns the supplier's purchase order totals for balance
// reconciliation.
func (s *Service) BilledTotals(ctx context.Context, supplierID int64) ([]float64, error) {
	pos, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	totals := make([]float64, 0, len(pos))
	for _, po := range pos {
		totals = append(totals, po.Total)
	}
	return totals, nil
}

func (s *Service) buildLines(ctx context.Context, specs []pricing.ItemSpec) ([]pricing.LineItem, error) {
	ids := make([]int64, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.VariantID)
	}
	variants, err := s.variants.ResolveVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	return pricing.BuildLines(variants, specs, pricing.TierPurchase)
}

func (s *Service) recordPOPayment(ctx context.Context, poID int64, po PurchaseOrder, mode payment.Mode) error {
	paymentType, generates := payment.DeriveType(po.PaymentStatus)
	if !generates {
		return nil
	}
	refOrderID := poID
	_, err := s.payments.Create(ctx, payment.CreateInput{
		CounterpartyID:   po.SupplierID,
		CounterpartyType: payment.CounterpartySupplier,
		Amount:           po.Total,
		PaymentType:      paymentType,
		PaymentMode:      mode,
		RefOrderID:       &refOrderID,
		CaptureDate:      po.CaptureDate,
	})
	return err
}

func (s *Service) notifyBalance(ctx context.Context, supplierID int64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBalanceChanged(ctx, payment.CounterpartySupplier, supplierID); err != nil && s.logger != nil {
		s.logger.Warn("balance refresh notify", slog.Any("error", err), slog.Int64("supplier_id", supplierID))
	}
}

func newPONumber() string {
	return "PO-" + strings.ToUpper(uuid.NewString()[:8])
}
