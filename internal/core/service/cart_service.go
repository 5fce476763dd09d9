package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Brolenso/fashionstore/internal/core/domain"
	"github.com/Brolenso/fashionstore/internal/ports/inbound"
	"github.com/Brolenso/fashionstore/internal/ports/outbound"
)

// ErrStoreClosed is returned to callers whose operation could not run
// because the store's execution context has shut down.
var ErrStoreClosed = errors.New("cart store closed")

type task struct {
	fn   func(ctx context.Context) error
	done chan error
}

// CartService serializes every cart operation onto a single worker
// goroutine, so no two operations ever touch the repository concurrently
// and read-modify-write sequences cannot interleave. Callers suspend on a
// channel until their unit of work has run.
type CartService struct {
	repo   outbound.CartRepository
	tasks  chan task
	closed chan struct{}
	stats  *Stats
}

func NewCartService(repo outbound.CartRepository) *CartService {
	return &CartService{
		repo:   repo,
		tasks:  make(chan task),
		closed: make(chan struct{}),
		stats:  NewStats(),
	}
}

// Run owns the serial execution context. It processes tasks one at a time
// in submission order until ctx is canceled. Call it once, usually as
// `go svc.Run(ctx)`.
func (s *CartService) Run(ctx context.Context) {
	defer close(s.closed)
	for {
		select {
		case t := <-s.tasks:
			// A dequeued task always runs to completion: aborting a
			// half-applied commit would break durability, so the task
			// context survives shutdown of ctx.
			err := t.fn(context.WithoutCancel(ctx))
			if err != nil {
				s.stats.IncFailed()
			} else {
				s.stats.IncDone()
			}
			t.done <- err
		case <-ctx.Done():
			return
		}
	}
}

// submit enqueues fn and waits for its result. If the caller's ctx expires
// after the task was accepted, the task still runs; only the wait ends.
func (s *CartService) submit(ctx context.Context, fn func(ctx context.Context) error) error {
	t := task{fn: fn, done: make(chan error, 1)}

	select {
	case s.tasks <- t:
	case <-s.closed:
		return ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-s.closed:
		// The worker fills done before it can exit, so a dequeued task
		// still reports its real result here.
		select {
		case err := <-t.done:
			return err
		default:
			return ErrStoreClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddItem merges one unit into the line for itemID, creating the line with
// count 1 when absent.
func (s *CartService) AddItem(ctx context.Context, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.ErrInvalidItem
	}
	return s.submit(ctx, func(ctx context.Context) error {
		if err := s.repo.AddItem(ctx, itemID); err != nil {
			return fmt.Errorf("add item %q: %w", itemID, err)
		}
		return nil
	})
}

func (s *CartService) Contains(ctx context.Context, itemID string) (bool, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return false, nil
	}
	var in bool
	err := s.submit(ctx, func(ctx context.Context) error {
		var err error
		in, err = s.repo.Contains(ctx, itemID)
		return err
	})
	if err != nil {
		return false, err
	}
	return in, nil
}

// FetchAll returns a value snapshot of the cart taken at execution time.
func (s *CartService) FetchAll(ctx context.Context) (domain.Cart, error) {
	var cart domain.Cart
	err := s.submit(ctx, func(ctx context.Context) error {
		var err error
		cart, err = s.repo.FetchAll(ctx)
		return err
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// SetCount overwrites the count of an existing line. Counts below 1 are
// rejected with ErrInvalidCount: shrinking a line to nothing is RemoveItem,
// never a zero write.
func (s *CartService) SetCount(ctx context.Context, itemID string, count int) error {
	if count < 1 {
		return domain.ErrInvalidCount
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.ErrNotFound
	}
	return s.submit(ctx, func(ctx context.Context) error {
		return s.repo.SetCount(ctx, itemID, count)
	})
}

// RemoveItem deletes the line for itemID. Removing an absent line succeeds.
func (s *CartService) RemoveItem(ctx context.Context, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil
	}
	return s.submit(ctx, func(ctx context.Context) error {
		if err := s.repo.RemoveItem(ctx, itemID); err != nil {
			return fmt.Errorf("remove item %q: %w", itemID, err)
		}
		return nil
	})
}

// Reconcile shrinks or deletes lines that the availability snapshot can no
// longer satisfy, as one durable batch, and returns how many units were
// taken out of the cart.
func (s *CartService) Reconcile(ctx context.Context, avail domain.Availability) (int, error) {
	var removed int
	err := s.submit(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.repo.Reconcile(ctx, avail)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *CartService) RemoveAll(ctx context.Context) error {
	return s.submit(ctx, func(ctx context.Context) error {
		if err := s.repo.RemoveAll(ctx); err != nil {
			return fmt.Errorf("remove all: %w", err)
		}
		return nil
	})
}

// Stats reports how many operations the worker has executed so far.
func (s *CartService) Stats() (done uint64, failed uint64) {
	return s.stats.Snapshot()
}

var _ inbound.CartUseCase = (*CartService)(nil)
