package memory

import (
	"context"
	"sync"

	"github.com/Brolenso/fashionstore/internal/core/domain"
	"github.com/Brolenso/fashionstore/internal/ports/outbound"
)

// CartRepository keeps cart records in a map. It satisfies the same
// contract as the durable adapters, so presentation-layer code and the
// service tests can run against it without a database.
type CartRepository struct {
	mu     sync.Mutex
	nextID int64
	byItem map[string]domain.CartRecord
}

func NewCartRepository() *CartRepository {
	return &CartRepository{byItem: make(map[string]domain.CartRecord)}
}

func (r *CartRepository) AddItem(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.byItem[itemID]; ok {
		rec.Count++
		r.byItem[itemID] = rec
		return nil
	}
	r.nextID++
	r.byItem[itemID] = domain.CartRecord{RecordID: r.nextID, ItemID: itemID, Count: 1}
	return nil
}

func (r *CartRepository) Contains(_ context.Context, itemID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byItem[itemID]
	return ok, nil
}

func (r *CartRepository) FetchAll(_ context.Context) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := domain.Cart{Records: make([]domain.CartRecord, 0, len(r.byItem))}
	for _, rec := range r.byItem {
		if err := rec.Validate(); err != nil {
			return domain.Cart{}, err
		}
		cart.Records = append(cart.Records, rec)
	}
	return cart, nil
}

func (r *CartRepository) SetCount(_ context.Context, itemID string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byItem[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Count = count
	r.byItem[itemID] = rec
	return nil
}

func (r *CartRepository) RemoveItem(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byItem, itemID)
	return nil
}

func (r *CartRepository) Reconcile(_ context.Context, avail domain.Availability) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]domain.CartRecord, 0, len(r.byItem))
	for _, rec := range r.byItem {
		records = append(records, rec)
	}

	plan := domain.ReconcileItems(records, avail)
	for _, a := range plan.Actions {
		if a.NewCount == 0 {
			delete(r.byItem, a.ItemID)
			continue
		}
		rec := r.byItem[a.ItemID]
		rec.Count = a.NewCount
		r.byItem[a.ItemID] = rec
	}
	return plan.RemovedUnits, nil
}

func (r *CartRepository) RemoveAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byItem = make(map[string]domain.CartRecord)
	return nil
}

// Seed inserts records as-is, bypassing merge logic. Test hook: lets a test
// plant a corrupt record that the normal write path would never produce.
func (r *CartRepository) Seed(records ...domain.CartRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		if rec.RecordID == 0 {
			r.nextID++
			rec.RecordID = r.nextID
		}
		r.byItem[rec.ItemID] = rec
	}
}

var _ outbound.CartRepository = (*CartRepository)(nil)
