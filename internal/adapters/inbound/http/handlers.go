package httpin

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/Brolenso/fashionstore/internal/core/domain"
	"github.com/Brolenso/fashionstore/internal/ports/inbound"
	"github.com/Brolenso/fashionstore/internal/web"
)

type Handlers struct {
	uc          inbound.CartUseCase
	summaryTmpl *template.Template
}

func NewHandlers(uc inbound.CartUseCase) *Handlers {
	t := template.Must(template.ParseFS(web.MustFS(), "summary.html"))
	return &Handlers{
		uc:          uc,
		summaryTmpl: t,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/cart", h.cart)
	mux.HandleFunc("/cart/items/", h.cartItem)
	mux.HandleFunc("/cart/reconcile", h.reconcile)
	mux.HandleFunc("/summary", h.summary)
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// cart handles the whole-cart resource: GET returns a snapshot, DELETE
// clears every line.
func (h *Handlers) cart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cart, err := h.uc.FetchAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, cart, http.StatusOK)
	case http.MethodDelete:
		if err := h.uc.RemoveAll(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type setCountRequest struct {
	Count int `json:"count"`
}

type containsResponse struct {
	InCart bool `json:"in_cart"`
}

// cartItem handles one line item: POST adds a unit, GET answers membership,
// PUT overwrites the count, DELETE removes the line.
func (h *Handlers) cartItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		http.Error(w, "missing item id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost:
		if err := h.uc.AddItem(r.Context(), itemID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		in, err := h.uc.Contains(r.Context(), itemID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, containsResponse{InCart: in}, http.StatusOK)
	case http.MethodPut:
		var req setCountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		if err := h.uc.SetCount(r.Context(), itemID, req.Count); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.uc.RemoveItem(r.Context(), itemID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type reconcileResponse struct {
	RemovedUnits int `json:"removed_units"`
}

// reconcile accepts an availability map and trims the cart against it.
func (h *Handlers) reconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var avail domain.Availability
	if err := json.NewDecoder(r.Body).Decode(&avail); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if avail == nil {
		http.Error(w, "missing availability map", http.StatusBadRequest)
		return
	}

	removed, err := h.uc.Reconcile(r.Context(), avail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, reconcileResponse{RemovedUnits: removed}, http.StatusOK)
}

type summaryVM struct {
	Lines   int
	Units   int
	Records []summaryRow
}

type summaryRow struct {
	ItemID string
	Count  int
}

func (h *Handlers) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cart, err := h.uc.FetchAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	vm := summaryVM{Lines: cart.Lines(), Units: cart.Units()}
	for _, rec := range cart.Records {
		vm.Records = append(vm.Records, summaryRow{ItemID: rec.ItemID, Count: rec.Count})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.summaryTmpl.Execute(w, vm); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidCount), errors.Is(err, domain.ErrInvalidItem):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrCorruptRecord):
		http.Error(w, "corrupt cart record", http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
