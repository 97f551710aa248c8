package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ramani888/abwa-sub000/internal/shared"
)

const variantColumns = `id, product_id, packing_size, unit, mrp, retail_price, wholesale_price, purchase_price, tax_rate_percent, min_stock_level, is_active, created_at, updated_at`

// Repository provides PostgreSQL backed access to product variants.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns a single variant by id.
func (r *Repository) Get(ctx context.Context, id int64) (*ProductVariant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id)
	v, err := scanVariant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("catalog: variant %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get variant: %w", err)
	}
	return v, nil
}

// GetMany resolves several variants at once, keyed by id. Unknown ids are
// simply absent from the result; callers decide whether that is an error.
func (r *Repository) GetMany(ctx context.Context, ids []int64) (map[int64]*ProductVariant, error) {
	if len(ids) == 0 {
		return map[int64]*ProductVariant{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: get variants: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*ProductVariant, len(ids))
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan variant: %w", err)
		}
		out[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: get variants: %w", err)
	}
	return out, nil
}

// ListByProduct returns the active variants of a product.
func (r *Repository) ListByProduct(ctx context.Context, productID int64) ([]ProductVariant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE product_id = $1 AND is_active ORDER BY packing_size`, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list variants: %w", err)
	}
	defer rows.Close()

	var out []ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan variant: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list variants: %w", err)
	}
	return out, nil
}

func scanVariant(row pgx.Row) (*ProductVariant, error) {
	var v ProductVariant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.PackingSize, &v.Unit,
		&v.MRP, &v.RetailPrice, &v.WholesalePrice, &v.PurchasePrice,
		&v.TaxRatePercent, &v.MinStockLevel, &v.IsActive,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
