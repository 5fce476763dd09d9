package httpin

import (
	"net/http"

	"github.com/Brolenso/fashionstore/internal/ports/inbound"
)

func NewMux(h *Handlers, uc inbound.CartUseCase) *http.ServeMux {
	mux := http.NewServeMux()

	h.Register(mux)

	ui := NewUI(uc)
	mux.HandleFunc("/", ui.Index)
	mux.HandleFunc("/ui/cart", ui.FetchCartSSE)

	return mux
}
