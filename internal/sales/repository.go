package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ramani888/abwa-sub000/internal/platform/db"
	"github.com/Ramani888/abwa-sub000/internal/pricing"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// Repository persists customer orders and their lines.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, order Order) (int64, error)
	InsertLine(ctx context.Context, orderID int64, line pricing.LineItem) error
	DeleteLines(ctx context.Context, orderID int64) error
	UpdateTotals(ctx context.Context, order Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) Create(ctx context.Context, order Order) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO orders
(number, customer_id, pricing_tier, subtotal, total_tax, round_off, total, payment_status, capture_date, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		order.Number, order.CustomerID, order.PricingTier, order.Subtotal, order.TotalTax,
		order.RoundOff, order.Total, order.PaymentStatus, order.CaptureDate, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sales: create order: %w", err)
	}
	return id, nil
}

func (r *repository) InsertLine(ctx context.Context, orderID int64, line pricing.LineItem) error {
	_, err := r.db.Exec(ctx, `INSERT INTO order_lines
(order_id, product_id, variant_id, packing_size, unit, unit_count, carton_count, quantity, unit_price, tax_rate_percent, tax_amount, line_total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		orderID, line.ProductID, line.VariantID, line.PackingSize, line.Unit,
		line.UnitCount, line.CartonCount, line.Quantity, line.UnitPrice,
		line.TaxRatePercent, line.TaxAmount, line.LineTotal)
	if err != nil {
		return fmt.Errorf("sales: insert line: %w", err)
	}
	return nil
}

func (r *repository) DeleteLines(ctx context.Context, orderID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("sales: delete lines: %w", err)
	}
	return nil
}

func (r *repository) UpdateTotals(ctx context.Context, order Order) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET
subtotal = $2, total_tax = $3, round_off = $4, total = $5, capture_date = $6, notes = $7, updated_at = $8
WHERE id = $1`,
		order.ID, order.Subtotal, order.TotalTax, order.RoundOff, order.Total,
		order.CaptureDate, order.Notes, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sales: update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sales: order %d: %w", order.ID, shared.ErrNotFound)
	}
	return nil
}

const orderColumns = `id, number, customer_id, pricing_tier, subtotal, total_tax, round_off, total, payment_status, capture_date, notes, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sales: order %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sales: get order: %w", err)
	}

	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = lines
	return order, nil
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	where := `WHERE ($1 = 0 OR customer_id = $1)
AND ($2::timestamptz IS NULL OR capture_date >= $2)
AND ($3::timestamptz IS NULL OR capture_date <= $3)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM orders `+where,
		req.CustomerID, req.DateFrom, req.DateTo).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sales: count orders: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders `+where+`
ORDER BY capture_date DESC, id DESC LIMIT $4 OFFSET $5`,
		req.CustomerID, req.DateFrom, req.DateTo, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sales: list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sales: scan order: %w", err)
		}
		out = append(out, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sales: list orders: %w", err)
	}
	return out, total, nil
}

// ListByCustomer returns the full billing history consumed by reconciliation.
func (r *repository) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("sales: list by customer: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sales: scan order: %w", err)
		}
		out = append(out, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales: list by customer: %w", err)
	}
	return out, nil
}

func (r *repository) lines(ctx context.Context, orderID int64) ([]pricing.LineItem, error) {
	rows, err := r.db.Query(ctx, `SELECT product_id, variant_id, packing_size, unit, unit_count, carton_count, quantity, unit_price, tax_rate_percent, tax_amount, line_total
FROM order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("sales: get lines: %w", err)
	}
	defer rows.Close()

	var out []pricing.LineItem
	for rows.Next() {
		var li pricing.LineItem
		if err := rows.Scan(&li.ProductID, &li.VariantID, &li.PackingSize, &li.Unit,
			&li.UnitCount, &li.CartonCount, &li.Quantity, &li.UnitPrice,
			&li.TaxRatePercent, &li.TaxAmount, &li.LineTotal); err != nil {
			return nil, fmt.Errorf("sales: scan line: %w", err)
		}
		out = append(out, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales: get lines: %w", err)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.PricingTier, &o.Subtotal,
		&o.TotalTax, &o.RoundOff, &o.Total, &o.PaymentStatus, &o.CaptureDate,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
