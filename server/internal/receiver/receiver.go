package receiver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/farmwatch/farmwatch/pkg/types"
	"github.com/farmwatch/farmwatch/server/internal/metrics"
	"github.com/farmwatch/farmwatch/server/internal/store"
)

// maxBodyBytes caps the ingest request body. Batches are small; anything
// larger is a malformed or hostile request.
const maxBodyBytes = 1 << 20

// Alerter is notified with the stored record after every upsert.
// *alerts.Engine implements it.
type Alerter interface {
	Evaluate(types.Record)
}

// Ack is the ingest response body.
type Ack struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Handler accepts one-or-many partial records and writes them to the store.
type Handler struct {
	store  *store.Store
	alerts Alerter // may be nil
}

// New creates a Handler that writes accepted records to st and notifies al
// (if non-nil) per stored record.
func New(st *store.Store, al Alerter) *Handler {
	return &Handler{store: st, alerts: al}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	items, err := decodeItems(body)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "decode body: "+err.Error())
		return
	}

	// One timestamp per request: batch items are simultaneous observations.
	now := h.store.Now()
	for _, u := range items {
		key := u.Key()
		h.store.Upsert(key, u, now)
		metrics.RecordsUpserted.Inc()

		if h.alerts != nil {
			if rec, ok := h.store.Get(key); ok {
				h.alerts.Evaluate(rec)
			}
		}
	}
	metrics.IngestRequests.Inc()

	slog.Debug("receiver: batch stored", "items", len(items), "total", h.store.Count())
	jsonResp(w, http.StatusOK, Ack{Status: "ok", Count: h.store.Count()})
}

// decodeItems parses a body that is either a single update object or an
// array of them, preserving input order.
func decodeItems(body []byte) ([]types.Update, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []types.Update
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var u types.Update
	if err := json.Unmarshal(trimmed, &u); err != nil {
		return nil, err
	}
	return []types.Update{u}, nil
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, map[string]string{"error": msg})
}
