package api

import (
	"encoding/json"
	"net/http"

	"github.com/farmwatch/farmwatch/server/internal/alerts"
	"github.com/farmwatch/farmwatch/server/internal/store"
)

// Handler is the HTTP handler for the read endpoints. It serves record data
// from the store and alert state from the engine.
type Handler struct {
	store  *store.Store
	engine *alerts.Engine // may be nil
	mux    *http.ServeMux
}

// New creates a Handler wired to the given store and alert engine and
// registers all routes.
func New(st *store.Store, engine *alerts.Engine) http.Handler {
	h := &Handler{store: st, engine: engine, mux: http.NewServeMux()}

	h.mux.HandleFunc("/messages", h.messages)
	h.mux.HandleFunc("/health", h.health)
	h.mux.HandleFunc("/alerts", h.alerts)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// messages returns GET /messages — all fresh records, newest first.
func (h *Handler) messages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.store.ListFresh())
}

// health returns GET /health — store counts and newest record age.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fresh := h.store.ListFresh()
	resp := HealthResponse{
		FreshCount: len(fresh),
		TotalCount: h.store.Count(),
	}
	if len(fresh) > 0 {
		resp.NewestAgeSecs = h.store.Now().Unix() - fresh[0].LastSeen
	}
	jsonResp(w, http.StatusOK, resp)
}

// alerts returns GET /alerts — firing and recently resolved alerts.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.engine == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.engine.Active())
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
