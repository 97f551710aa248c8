package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/pricing"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

type memoryOrderRepo struct {
	orders map[int64]*Order
	lines  map[int64][]pricing.LineItem
	nextID int64
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[int64]*Order), lines: make(map[int64][]pricing.LineItem)}
}

func (r *memoryOrderRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryOrderRepo) Create(ctx context.Context, order Order) (int64, error) {
	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = &order
	return order.ID, nil
}

func (r *memoryOrderRepo) InsertLine(ctx context.Context, orderID int64, line pricing.LineItem) error {
	r.lines[orderID] = append(r.lines[orderID], line)
	return nil
}

func (r *memoryOrderRepo) DeleteLines(ctx context.Context, orderID int64) error {
	delete(r.lines, orderID)
	return nil
}

func (r *memoryOrderRepo) UpdateTotals(ctx context.Context, order Order) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	*stored = order
	return nil
}

func (r *memoryOrderRepo) Get(ctx context.Context, id int64) (*Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *order
	copied.Items = append([]pricing.LineItem(nil), r.lines[id]...)
	return &copied, nil
}

func (r *memoryOrderRepo) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	var out []Order
	for _, o := range r.orders {
		if req.CustomerID != 0 && o.CustomerID != req.CustomerID {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *memoryOrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	var out []Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type stubVariants struct {
	variants map[int64]*catalog.ProductVariant
}

func (s *stubVariants) ResolveVariants(ctx context.Context, ids []int64) (map[int64]*catalog.ProductVariant, error) {
	out := make(map[int64]*catalog.ProductVariant)
	for _, id := range ids {
		if v, ok := s.variants[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type stubPayments struct {
	created []payment.CreateInput
	fail    error
}

func (s *stubPayments) Create(ctx context.Context, in payment.CreateInput) (*payment.Record, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.created = append(s.created, in)
	return &payment.Record{ID: int64(len(s.created)), Amount: in.Amount}, nil
}

func (s *stubPayments) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	for _, in := range s.created {
		if in.RefOrderID != nil && *in.RefOrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func testVariants() *stubVariants {
	return &stubVariants{variants: map[int64]*catalog.ProductVariant{
		11: {ID: 11, ProductID: 7, PackingSize: "500g", Unit: "pkt",
			MRP: 1000, RetailPrice: 850, WholesalePrice: 800, PurchasePrice: 700, TaxRatePercent: 5},
		12: {ID: 12, ProductID: 8, PackingSize: "1kg", Unit: "pkt",
			MRP: 200, RetailPrice: 160, WholesalePrice: 150, PurchasePrice: 120, TaxRatePercent: 0},
	}}
}

func newTestService(payments *stubPayments) (*Service, *memoryOrderRepo) {
	repo := newMemoryOrderRepo()
	return NewService(repo, testVariants(), payments, nil, nil), repo
}

func validCreateRequest() CreateOrderRequest {
	return CreateOrderRequest{
		CustomerID:  42,
		PricingTier: pricing.TierRetail,
		Items: []pricing.ItemSpec{
			{VariantID: 11, UnitCount: 2, CartonCount: 3},
			{VariantID: 12, UnitCount: 5, CartonCount: 1},
		},
		PaymentStatus: payment.OrderUnpaid,
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	svc, _ := newTestService(&stubPayments{})
	order, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.Equal(t, 5900.0, order.Subtotal)
	require.Equal(t, 255.0, order.TotalTax)
	require.Equal(t, 0.0, order.RoundOff)
	require.Equal(t, 6155.0, order.Total)
	require.Len(t, order.Items, 2)
	require.Equal(t, 6, order.Items[0].Quantity)
	require.Equal(t, 5355.0, order.Items[0].LineTotal)
}

func TestCreateOrderMergesDuplicateVariantSpecs(t *testing.T) {
	svc, _ := newTestService(&stubPayments{})
	req := validCreateRequest()
	req.Items = []pricing.ItemSpec{
		{VariantID: 11, UnitCount: 2, CartonCount: 3},
		{VariantID: 11, UnitCount: 4, CartonCount: 1},
	}

	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.Equal(t, 4, order.Items[0].Quantity)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newTestService(&stubPayments{})
	ctx := context.Background()

	req := validCreateRequest()
	req.Items = nil
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrValidation)

	req = validCreateRequest()
	req.CustomerID = 0
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrValidation)

	req = validCreateRequest()
	req.PricingTier = pricing.TierPurchase
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrValidation)

	req = validCreateRequest()
	req.Items[0].UnitCount = 0
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUnpaidOrderGeneratesNoPayment(t *testing.T) {
	payments := &stubPayments{}
	svc, _ := newTestService(payments)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.Empty(t, payments.created)
}

func TestPaidOrderGeneratesFullPayment(t *testing.T) {
	payments := &stubPayments{}
	svc, _ := newTestService(payments)

	req := validCreateRequest()
	req.PaymentStatus = payment.OrderPaid
	req.PaymentMode = payment.Mode{Kind: payment.ModeCash}

	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, payments.created, 1)

	rec := payments.created[0]
	require.Equal(t, order.Total, rec.Amount)
	require.Equal(t, payment.TypeFull, rec.PaymentType)
	require.Equal(t, payment.CounterpartyCustomer, rec.CounterpartyType)
	require.NotNil(t, rec.RefOrderID)
	require.Equal(t, order.ID, *rec.RefOrderID)
}

func TestPartialOrderGeneratesPartialPayment(t *testing.T) {
	payments := &stubPayments{}
	svc, _ := newTestService(payments)

	req := validCreateRequest()
	req.PaymentStatus = payment.OrderPartial
	req.PaymentMode = payment.Mode{Kind: payment.ModeUPI, Reference: "upi-9"}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, payments.created, 1)
	require.Equal(t, payment.TypePartial, payments.created[0].PaymentType)
}

func TestPaymentFailureLeavesOrderAndIsRetryable(t *testing.T) {
	payments := &stubPayments{fail: errors.New("ledger unavailable")}
	svc, repo := newTestService(payments)

	req := validCreateRequest()
	req.PaymentStatus = payment.OrderPaid
	req.PaymentMode = payment.Mode{Kind: payment.ModeCash}

	_, err := svc.Create(context.Background(), req)
	var pending *shared.PaymentPendingError
	require.ErrorAs(t, err, &pending)

	// The order survived the payment failure.
	order, err := repo.Get(context.Background(), pending.OrderID)
	require.NoError(t, err)
	require.Equal(t, payment.OrderPaid, order.PaymentStatus)

	// Retry only the payment step once the ledger is back.
	payments.fail = nil
	_, err = svc.RetryPayment(context.Background(), pending.OrderID, payment.Mode{Kind: payment.ModeCash})
	require.NoError(t, err)
	require.Len(t, payments.created, 1)
	require.Equal(t, order.Total, payments.created[0].Amount)
}

func TestRetryPaymentGuards(t *testing.T) {
	payments := &stubPayments{}
	svc, _ := newTestService(payments)
	ctx := context.Background()

	unpaid, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	_, err = svc.RetryPayment(ctx, unpaid.ID, payment.Mode{Kind: payment.ModeCash})
	require.ErrorIs(t, err, shared.ErrValidation)

	req := validCreateRequest()
	req.PaymentStatus = payment.OrderPaid
	req.PaymentMode = payment.Mode{Kind: payment.ModeCash}
	paid, err := svc.Create(ctx, req)
	require.NoError(t, err)
	_, err = svc.RetryPayment(ctx, paid.ID, payment.Mode{Kind: payment.ModeCash})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateOrderRecomputesDerivedFields(t *testing.T) {
	svc, _ := newTestService(&stubPayments{})
	ctx := context.Background()

	order, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, order.ID, UpdateOrderRequest{
		Items: []pricing.ItemSpec{{VariantID: 12, UnitCount: 2, CartonCount: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 320.0, updated.Subtotal)
	require.Equal(t, 0.0, updated.TotalTax)
	require.Equal(t, 320.0, updated.Total)
	require.Len(t, updated.Items, 1)

	_, err = svc.Update(ctx, order.ID, UpdateOrderRequest{})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	svc, repo := newTestService(&stubPayments{})

	resp, err := svc.Preview(context.Background(), PreviewRequest{
		PricingTier: pricing.TierWholesale,
		Items:       []pricing.ItemSpec{{VariantID: 11, UnitCount: 1, CartonCount: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 1600.0, resp.Totals.Subtotal)
	require.Empty(t, repo.orders)
}
