package httpin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Brolenso/fashionstore/internal/adapters/outbound/memory"
	"github.com/Brolenso/fashionstore/internal/core/domain"
	"github.com/Brolenso/fashionstore/internal/core/service"

	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	repo := memory.NewCartRepository()
	svc := service.NewCartService(repo)

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

	return NewMux(NewHandlers(svc), svc)
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	mux := newTestMux(t)
	rec := do(mux, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestAddAndFetchCart(t *testing.T) {
	mux := newTestMux(t)

	require.Equal(t, http.StatusCreated, do(mux, http.MethodPost, "/cart/items/sku-1", "").Code)
	require.Equal(t, http.StatusCreated, do(mux, http.MethodPost, "/cart/items/sku-1", "").Code)

	rec := do(mux, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Records, 1)
	require.Equal(t, "sku-1", cart.Records[0].ItemID)
	require.Equal(t, 2, cart.Records[0].Count)
}

func TestContainsEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := do(mux, http.MethodGet, "/cart/items/sku-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"in_cart": false}`, rec.Body.String())

	do(mux, http.MethodPost, "/cart/items/sku-1", "")

	rec = do(mux, http.MethodGet, "/cart/items/sku-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"in_cart": true}`, rec.Body.String())
}

func TestSetCountEndpoint(t *testing.T) {
	mux := newTestMux(t)

	do(mux, http.MethodPost, "/cart/items/sku-1", "")

	require.Equal(t, http.StatusNoContent,
		do(mux, http.MethodPut, "/cart/items/sku-1", `{"count": 5}`).Code)

	require.Equal(t, http.StatusNotFound,
		do(mux, http.MethodPut, "/cart/items/missing", `{"count": 3}`).Code)

	require.Equal(t, http.StatusBadRequest,
		do(mux, http.MethodPut, "/cart/items/sku-1", `{"count": 0}`).Code)

	require.Equal(t, http.StatusBadRequest,
		do(mux, http.MethodPut, "/cart/items/sku-1", `not json`).Code)
}

func TestRemoveEndpoints(t *testing.T) {
	mux := newTestMux(t)

	do(mux, http.MethodPost, "/cart/items/sku-1", "")
	do(mux, http.MethodPost, "/cart/items/sku-2", "")

	// Idempotent per-line delete.
	require.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/cart/items/sku-1", "").Code)
	require.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/cart/items/sku-1", "").Code)

	require.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/cart", "").Code)

	rec := do(mux, http.MethodGet, "/cart", "")
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Empty(t, cart.Records)
}

func TestReconcileEndpoint(t *testing.T) {
	mux := newTestMux(t)

	for i := 0; i < 5; i++ {
		do(mux, http.MethodPost, "/cart/items/A", "")
	}
	for i := 0; i < 3; i++ {
		do(mux, http.MethodPost, "/cart/items/B", "")
	}
	do(mux, http.MethodPost, "/cart/items/C", "")
	do(mux, http.MethodPost, "/cart/items/C", "")

	rec := do(mux, http.MethodPost, "/cart/reconcile", `{"A": 5, "B": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"removed_units": 6}`, rec.Body.String())

	require.Equal(t, http.StatusBadRequest,
		do(mux, http.MethodPost, "/cart/reconcile", `null`).Code)
	require.Equal(t, http.StatusBadRequest,
		do(mux, http.MethodPost, "/cart/reconcile", `[1,2]`).Code)
	require.Equal(t, http.StatusMethodNotAllowed,
		do(mux, http.MethodGet, "/cart/reconcile", "").Code)
}

func TestMissingItemID(t *testing.T) {
	mux := newTestMux(t)
	require.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/cart/items/", "").Code)
}

func TestSummaryPage(t *testing.T) {
	mux := newTestMux(t)

	do(mux, http.MethodPost, "/cart/items/sku-1", "")
	do(mux, http.MethodPost, "/cart/items/sku-1", "")

	rec := do(mux, http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "1 lines, 2 units")
	require.Contains(t, rec.Body.String(), "sku-1")
}
