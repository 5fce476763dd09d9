package inbound

import (
	"context"

	"github.com/Brolenso/fashionstore/internal/core/domain"
)

// CartUseCase is the caller-facing cart contract. Every call suspends the
// caller until its unit of work has run on the store's serial context.
type CartUseCase interface {
	AddItem(ctx context.Context, itemID string) error
	Contains(ctx context.Context, itemID string) (bool, error)
	FetchAll(ctx context.Context) (domain.Cart, error)
	SetCount(ctx context.Context, itemID string, count int) error
	RemoveItem(ctx context.Context, itemID string) error
	Reconcile(ctx context.Context, avail domain.Availability) (removedUnits int, err error)
	RemoveAll(ctx context.Context) error
}
