package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Brolenso/fashionstore/internal/adapters/outbound/memory"
	"github.com/Brolenso/fashionstore/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*CartService, *memory.CartRepository) {
	t.Helper()

	repo := memory.NewCartRepository()
	svc := NewCartService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(runDone)
	}()
	t.Cleanup(func() {
		cancel()
		<-runDone
	})

	return svc, repo
}

func counts(t *testing.T, svc *CartService) map[string]int {
	t.Helper()
	cart, err := svc.FetchAll(context.Background())
	require.NoError(t, err)
	out := make(map[string]int, len(cart.Records))
	for _, r := range cart.Records {
		out[r.ItemID] = r.Count
	}
	return out
}

func TestAddItemMergesDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "sku-1"))
	require.NoError(t, svc.AddItem(ctx, "sku-1"))
	require.NoError(t, svc.AddItem(ctx, "sku-2"))

	require.Equal(t, map[string]int{"sku-1": 2, "sku-2": 1}, counts(t, svc))
}

func TestAddItemRejectsEmptyID(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.AddItem(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrInvalidItem)
	require.Empty(t, counts(t, svc))
}

func TestContains(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in, err := svc.Contains(ctx, "sku-1")
	require.NoError(t, err)
	require.False(t, in)

	require.NoError(t, svc.AddItem(ctx, "sku-1"))

	in, err = svc.Contains(ctx, "sku-1")
	require.NoError(t, err)
	require.True(t, in)

	in, err = svc.Contains(ctx, "")
	require.NoError(t, err)
	require.False(t, in)
}

func TestSetCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "sku-1"))
	require.NoError(t, svc.SetCount(ctx, "sku-1", 7))
	require.Equal(t, map[string]int{"sku-1": 7}, counts(t, svc))
}

func TestSetCountMissingItemFails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "sku-1"))

	err := svc.SetCount(ctx, "sku-missing", 3)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// The failed edit must not have touched anything.
	require.Equal(t, map[string]int{"sku-1": 1}, counts(t, svc))
}

func TestSetCountRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "sku-1"))

	require.ErrorIs(t, svc.SetCount(ctx, "sku-1", 0), domain.ErrInvalidCount)
	require.ErrorIs(t, svc.SetCount(ctx, "sku-1", -4), domain.ErrInvalidCount)
	require.Equal(t, map[string]int{"sku-1": 1}, counts(t, svc))
}

func TestRemoveItemIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "sku-1"))
	require.NoError(t, svc.RemoveItem(ctx, "sku-1"))
	require.NoError(t, svc.RemoveItem(ctx, "sku-1"))
	require.NoError(t, svc.RemoveItem(ctx, "never-added"))

	require.Empty(t, counts(t, svc))
}

func TestRemoveAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, svc.AddItem(ctx, id))
	}

	require.NoError(t, svc.RemoveAll(ctx))
	require.Empty(t, counts(t, svc))
}

func TestReconcile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := map[string]int{"A": 5, "B": 3, "C": 2}
	for id, n := range seed {
		for range n {
			require.NoError(t, svc.AddItem(ctx, id))
		}
	}

	removed, err := svc.Reconcile(ctx, domain.Availability{"A": 5, "B": 1})
	require.NoError(t, err)
	require.Equal(t, 6, removed)
	require.Equal(t, map[string]int{"A": 5, "B": 1}, counts(t, svc))

	// A covering snapshot changes nothing.
	removed, err = svc.Reconcile(ctx, domain.Availability{"A": 100, "B": 1})
	require.NoError(t, err)
	require.Zero(t, removed)
	require.Equal(t, map[string]int{"A": 5, "B": 1}, counts(t, svc))
}

func TestFetchAllSurfacesCorruptRecord(t *testing.T) {
	svc, repo := newTestService(t)

	repo.Seed(domain.CartRecord{ItemID: "sku-1", Count: 0})

	_, err := svc.FetchAll(context.Background())
	require.ErrorIs(t, err, domain.ErrCorruptRecord)
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 64
	errs := make(chan error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			errs <- svc.AddItem(ctx, "sku-1")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, map[string]int{"sku-1": n}, counts(t, svc))
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	repo := memory.NewCartRepository()
	svc := NewCartService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(runDone)
	}()

	require.NoError(t, svc.AddItem(context.Background(), "sku-1"))

	cancel()
	<-runDone

	err := svc.AddItem(context.Background(), "sku-2")
	require.ErrorIs(t, err, ErrStoreClosed)
}

func TestStatsCountOperations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "sku-1"))
	require.Error(t, svc.SetCount(ctx, "missing", 2))

	done, failed := svc.Stats()
	require.Equal(t, uint64(1), done)
	require.Equal(t, uint64(1), failed)
}
