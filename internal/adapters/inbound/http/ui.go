package httpin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Brolenso/fashionstore/internal/ports/inbound"
	"github.com/Brolenso/fashionstore/internal/web"

	"github.com/starfederation/datastar-go/datastar"
)

type UI struct {
	uc inbound.CartUseCase
}

func NewUI(uc inbound.CartUseCase) *UI {
	return &UI{uc: uc}
}

type uiSignals struct {
	ItemID string `json:"item_id"`
}

func (u *UI) Index(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.FS(web.MustFS())).ServeHTTP(w, r)
}

// FetchCartSSE optionally adds the signaled item, then re-renders the
// current cart snapshot.
func (u *UI) FetchCartSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		sse.PatchElements(`<p id="status">Bad request: invalid signals</p>`)
		return
	}

	if id := strings.TrimSpace(signals.ItemID); id != "" {
		if err := u.uc.AddItem(r.Context(), id); err != nil {
			sse.PatchElements(`<p id="status">Add failed</p>`)
			return
		}
	}

	cart, err := u.uc.FetchAll(r.Context())
	if err != nil {
		sse.PatchElements(`<p id="status">Internal error</p>`)
		return
	}

	b, _ := json.MarshalIndent(cart, "", "  ")
	sse.PatchElements(fmt.Sprintf(`<p id="status">%d lines, %d units</p>`, cart.Lines(), cart.Units()))
	sse.PatchElements(`<pre id="result">` + htmlEscape(string(b)) + `</pre>`)
}

func htmlEscape(s string) string {
	repl := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return repl.Replace(s)
}
