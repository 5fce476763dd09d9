package sqlite

import (
	"context"
	"fmt"

	"github.com/Brolenso/fashionstore/internal/core/domain"
	"github.com/Brolenso/fashionstore/internal/ports/outbound"
)

// The schema uses AUTOINCREMENT so a deleted record's id is never handed
// out again.

func (s *Store) AddItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (item_id, count)
		VALUES (?, 1)
		ON CONFLICT (item_id) DO UPDATE SET
			count = count + 1,
			updated_at = datetime('now')
	`, itemID)
	if err != nil {
		return persistence("upsert cart item", err)
	}
	return nil
}

func (s *Store) Contains(ctx context.Context, itemID string) (bool, error) {
	var in bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM cart_items WHERE item_id = ?)
	`, itemID).Scan(&in)
	if err != nil {
		return false, persistence("query cart item", err)
	}
	return in, nil
}

func (s *Store) FetchAll(ctx context.Context) (domain.Cart, error) {
	rows, err := s.db.QueryContext(ctx, `
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

func (s *Store) SetCount(ctx context.Context, itemID string, count int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cart_items
		SET count = ?, updated_at = datetime('now')
		WHERE item_id = ?
	`, count, itemID)
	if err != nil {
		return persistence("update cart item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistence("rows affected", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE item_id = ?`, itemID); err != nil {
		return persistence("delete cart item", err)
	}
	return nil
}

func (s *Store) Reconcile(ctx context.Context, avail domain.Availability) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistence("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id, item_id, count FROM cart_items`)
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
			if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE item_id = ?`, a.ItemID); err != nil {
				return 0, persistence("delete unavailable item", err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE cart_items SET count = ?, updated_at = datetime('now') WHERE item_id = ?
		`, a.NewCount, a.ItemID); err != nil {
			return 0, persistence("clamp item count", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, persistence("commit reconcile", err)
	}

	return plan.RemovedUnits, nil
}

func (s *Store) RemoveAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
		return persistence("clear cart", err)
	}
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}

var _ outbound.CartRepository = (*Store)(nil)
