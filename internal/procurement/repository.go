package procurement

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

// Repository persists purchase orders and their lines.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, po PurchaseOrder) (int64, error)
	InsertLine(ctx context.Context, poID int64, line pricing.LineItem) error
	DeleteLines(ctx context.Context, poID int64) error
	UpdateTotals(ctx context.Context, po PurchaseOrder) error
	Get(ctx context.Context, id int64) (*PurchaseOrder, error)
	List(ctx context.Context, req ListPORequest) ([]PurchaseOrder, int, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]PurchaseOrder, error)
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

const poColumns = `id, number, supplier_id, subtotal, total_tax, round_off, total, payment_status, capture_date, notes, created_at, updated_at`

func (r *repository) Create(ctx context.Context, po PurchaseOrder) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO purchase_orders
(number, supplier_id, subtotal, total_tax, round_off, total, payment_status, capture_date, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		po.Number, po.SupplierID, po.Subtotal, po.TotalTax, po.RoundOff, po.Total,
		po.PaymentStatus, po.CaptureDate, po.Notes, po.CreatedAt, po.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("procurement: create po: %w", err)
	}
	return id, nil
}

func (r *repository) InsertLine(ctx context.Context, poID int64, line pricing.LineItem) error {
	_, err := r.db.Exec(ctx, `INSERT INTO purchase_order_lines
(po_id, product_id, variant_id, packing_size, unit, unit_count, carton_count, quantity, unit_price, tax_rate_percent, tax_amount, line_total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		poID, line.ProductID, line.VariantID, line.PackingSize, line.Unit,
		line.UnitCount, line.CartonCount, line.Quantity, line.UnitPrice,
		line.TaxRatePercent, line.TaxAmount, line.LineTotal)
	if err != nil {
		return fmt.Errorf("procurement: insert line: %w", err)
	}
	return nil
}

func (r *repository) DeleteLines(ctx context.Context, poID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM purchase_order_lines WHERE po_id = $1`, poID); err != nil {
		return fmt.Errorf("procurement: delete lines: %w", err)
	}
	return nil
}

func (r *repository) UpdateTotals(ctx context.Context, po PurchaseOrder) error {
	tag, err := r.db.Exec(ctx, `UPDATE purchase_orders SET
subtotal = $2, total_tax = $3, round_off = $4, total = $5, capture_date = $6, notes = $7, updated_at = $8
WHERE id = $1`,
		po.ID, po.Subtotal, po.TotalTax, po.RoundOff, po.Total,
		po.CaptureDate, po.Notes, po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("procurement: update po: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("procurement: po %d: %w", po.ID, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*PurchaseOrder, error) {
	row := r.db.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id)
	po, err := scanPO(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("procurement: po %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("procurement: get po: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT product_id, variant_id, packing_size, unit, unit_count, carton_count, quantity, unit_price, tax_rate_percent, tax_amount, line_total
FROM purchase_order_lines WHERE po_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("procurement: get lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var li pricing.LineItem
		if err := rows.Scan(&li.ProductID, &li.VariantID, &li.PackingSize, &li.Unit,
			&li.UnitCount, &li.CartonCount, &li.Quantity, &li.UnitPrice,
			&li.TaxRatePercent, &li.TaxAmount, &li.LineTotal); err != nil {
			return nil, fmt.Errorf("procurement: scan line: %w", err)
		}
		po.Items = append(po.Items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("procurement: get lines: %w", err)
	}
	return po, nil
}

func (r *repository) List(ctx context.Context, req ListPORequest) ([]PurchaseOrder, int, error) {
	where := `WHERE ($1 = 0 OR supplier_id = $1)
AND ($2::timestamptz IS NULL OR capture_date >= $2)
AND ($3::timestamptz IS NULL OR capture_date <= $3)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM purchase_orders `+where,
		req.SupplierID, req.DateFrom, req.DateTo).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("procurement: count pos: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+poColumns+` FROM purchase_orders `+where+`
ORDER BY capture_date DESC, id DESC LIMIT $4 OFFSET $5`,
		req.SupplierID, req.DateFrom, req.DateTo, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("procurement: list pos: %w", err)
	}
	defer rows.Close()

	var out []PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("procurement: scan po: %w", err)
		}
		out = append(out, *po)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("procurement: list pos: %w", err)
	}
	return out, total, nil
}

// ListBySupplier returns the full billing history consumed by reconciliation.
func (r *repository) ListBySupplier(ctx context.Context, supplierID int64) ([]PurchaseOrder, error) {
	rows, err := r.db.Query(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE supplier_id = $1 ORDER BY id`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("procurement: list by supplier: %w", err)
	}
	defer rows.Close()

	var out []PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("procurement: scan po: %w", err)
		}
		out = append(out, *po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("procurement: list by supplier: %w", err)
	}
	return out, nil
}

func scanPO(row pgx.Row) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := row.Scan(&po.ID, &po.Number, &po.SupplierID, &po.Subtotal, &po.TotalTax,
		&po.RoundOff, &po.Total, &po.PaymentStatus, &po.CaptureDate, &po.Notes,
		&po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}
