package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ramani888/abwa-sub000/internal/shared"
)

const recordColumns = `id, number, counterparty_id, counterparty_type, amount, payment_type, payment_mode, mode_reference, ref_order_id, notes, capture_date, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for payment records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a payment record and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, rec Record) (*Record, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO payment_records
(number, counterparty_id, counterparty_type, amount, payment_type, payment_mode, mode_reference, ref_order_id, notes, capture_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		rec.Number, rec.CounterpartyID, rec.CounterpartyType, rec.Amount,
		rec.PaymentType, rec.PaymentMode.Kind, nullable(rec.PaymentMode.Reference),
		rec.RefOrderID, rec.Notes, rec.CaptureDate, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("payment: create: %w", err)
	}
	return &rec, nil
}

// Get returns one payment record by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM payment_records WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment: record %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("payment: get: %w", err)
	}
	return rec, nil
}

// Update rewrites an existing record through the explicit edit flow.
func (r *Repository) Update(ctx context.Context, rec Record) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payment_records SET
amount = $2, payment_type = $3, payment_mode = $4, mode_reference = $5, notes = $6, capture_date = $7, updated_at = $8
WHERE id = $1`,
		rec.ID, rec.Amount, rec.PaymentType, rec.PaymentMode.Kind,
		nullable(rec.PaymentMode.Reference), rec.Notes, rec.CaptureDate, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("payment: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment: record %d: %w", rec.ID, shared.ErrNotFound)
	}
	return nil
}

// ExistsForOrder reports whether an order already has a linked record.
func (r *Repository) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payment_records WHERE ref_order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("payment: exists for order: %w", err)
	}
	return exists, nil
}

// ListByCounterparty returns every record for one counterparty, newest first.
func (r *Repository) ListByCounterparty(ctx context.Context, ctype CounterpartyType, counterpartyID int64) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recordColumns+` FROM payment_records
WHERE counterparty_type = $1 AND counterparty_id = $2 ORDER BY capture_date DESC, id DESC`,
		ctype, counterpartyID)
	if err != nil {
		return nil, fmt.Errorf("payment: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("payment: scan: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payment: list: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var modeRef *string
	err := row.Scan(
		&rec.ID, &rec.Number, &rec.CounterpartyID, &rec.CounterpartyType,
		&rec.Amount, &rec.PaymentType, &rec.PaymentMode.Kind, &modeRef,
		&rec.RefOrderID, &rec.Notes, &rec.CaptureDate, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if modeRef != nil {
		rec.PaymentMode.Reference = *modeRef
	}
	return &rec, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
