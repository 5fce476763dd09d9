package outbound

import (
	"context"

	"github.com/Brolenso/fashionstore/internal/core/domain"
)

// CartRepository is the persistence port for cart records. Implementations
// are not required to be safe for concurrent use: the cart service funnels
// every call through its serial execution context.
type CartRepository interface {
	AddItem(ctx context.Context, itemID string) error
	Contains(ctx context.Context, itemID string) (bool, error)
	FetchAll(ctx context.Context) (domain.Cart, error)
	SetCount(ctx context.Context, itemID string, count int) error
	RemoveItem(ctx context.Context, itemID string) error
	Reconcile(ctx context.Context, avail domain.Availability) (removedUnits int, err error)
	RemoveAll(ctx context.Context) error
}
