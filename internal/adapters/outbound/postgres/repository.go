package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Brolenso/fashionstore/internal/core/domain"
	"github.com/Brolenso/fashionstore/internal/ports/outbound"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartRepository persists cart records in the cart_items table. item_id is
// unique and count is checked >= 1 at the schema level.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) AddItem(ctx context.Context, itemID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (item_id, count)
		VALUES ($1, 1)
		ON CONFLICT (item_id) DO UPDATE SET
			count = cart_items.count + 1,
			updated_at = now()
	`, itemID)
	if err != nil {
		return persistence("upsert cart item", err)
	}
	return nil
}

func (r *CartRepository) Contains(ctx context.Context, itemID string) (bool, error) {
	var in bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM cart_items WHERE item_id = $1)
	`, itemID).Scan(&in)
	if err != nil {
		return false, persistence("query cart item", err)
	}
	return in, nil
}

func (r *CartRepository) FetchAll(ctx context.Context) (domain.Cart, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, item_id, count
		FROM cart_items
		ORDER BY id ASC
	`)
	if err != nil {
		return domain.Cart{}, persistence("query cart items", err)
	}
	defer rows.Close()

	cart := domain.Cart{Records: []domain.CartRecord{}}
	for rows.Next() {
		var rec domain.CartRecord
		if err := rows.Scan(&rec.RecordID, &rec.ItemID, &rec.Count); err != nil {
			return domain.Cart{}, fmt.Errorf("%w: scan cart item: %v", domain.ErrCorruptRecord, err)
		}
		// A record that cannot be fully reconstructed is corruption,
		// never silently skipped.
		if err := rec.Validate(); err != nil {
			return domain.Cart{}, err
		}
		cart.Records = append(cart.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, persistence("cart rows", err)
	}

	return cart, nil
}

func (r *CartRepository) SetCount(ctx context.Context, itemID string, count int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cart_items
		SET count = $2, updated_at = now()
		WHERE item_id = $1
	`, itemID, count)
	if err != nil {
		return persistence("update cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, itemID string) error {
	// Idempotent: deleting an absent row is not an error.
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE item_id = $1`, itemID)
	if err != nil {
		return persistence("delete cart item", err)
	}
	return nil
}

func (r *CartRepository) Reconcile(ctx context.Context, avail domain.Availability) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, persistence("begin tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `SELECT id, item_id, count FROM cart_items`)
	if err != nil {
		return 0, persistence("query cart items", err)
	}

	var records []domain.CartRecord
	for rows.Next() {
		var rec domain.CartRecord
		if err := rows.Scan(&rec.RecordID, &rec.ItemID, &rec.Count); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: scan cart item: %v", domain.ErrCorruptRecord, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, persistence("cart rows", err)
	}
	rows.Close()

	plan := domain.ReconcileItems(records, avail)

	for _, a := range plan.Actions {
		if a.NewCount == 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE item_id = $1`, a.ItemID); err != nil {
				return 0, persistence("delete unavailable item", err)
			}
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE cart_items SET count = $2, updated_at = now() WHERE item_id = $1
		`, a.ItemID, a.NewCount); err != nil {
			return 0, persistence("clamp item count", err)
		}
	}

	// One commit for the whole pass: either every overflowing line is
	// trimmed or none is.
	if err := tx.Commit(ctx); err != nil {
		return 0, persistence("commit reconcile", err)
	}

	return plan.RemovedUnits, nil
}

func (r *CartRepository) RemoveAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items`); err != nil {
		return persistence("clear cart", err)
	}
	return nil
}

func persistence(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}

var _ outbound.CartRepository = (*CartRepository)(nil)
