package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farmwatch/farmwatch/pkg/types"
	"github.com/farmwatch/farmwatch/server/internal/api"
	"github.com/farmwatch/farmwatch/server/internal/store"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMessages_Empty(t *testing.T) {
	h := api.New(store.New(10*time.Minute), nil)

	rec := get(t, h, "/messages")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body: got %q, want empty JSON array", got)
	}
}

func TestMessages_NewestFirst(t *testing.T) {
	st := store.New(10 * time.Minute)
	now := time.Now()
	st.Upsert("job:old", types.Update{ServerName: types.String("Old")}, now.Add(-5*time.Second))
	st.Upsert("job:new", types.Update{ServerName: types.String("New")}, now.Add(-1*time.Second))
	st.Upsert("job:mid", types.Update{ServerName: types.String("Mid")}, now.Add(-3*time.Second))

	rec := get(t, api.New(st, nil), "/messages")

	var out []types.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("records: got %d, want 3", len(out))
	}
	want := []string{"New", "Mid", "Old"}
	for i, name := range want {
		if out[i].ServerName != name {
			t.Errorf("out[%d].ServerName: got %q, want %q", i, out[i].ServerName, name)
		}
	}
}

func TestMessages_ExcludesStaleBeforeSweep(t *testing.T) {
	st := store.New(10 * time.Minute)
	now := time.Now()
	st.Upsert("job:stale", types.Update{}, now.Add(-11*time.Minute))
	st.Upsert("job:live", types.Update{}, now)

	rec := get(t, api.New(st, nil), "/messages")

	var out []types.Record
	json.Unmarshal(rec.Body.Bytes(), &out) //nolint:errcheck
	if len(out) != 1 {
		t.Fatalf("records: got %d, want 1 (stale hidden)", len(out))
	}
	if st.Count() != 2 {
		t.Errorf("Count: got %d, want 2 (stale still held)", st.Count())
	}

	st.Sweep(now)
	if st.Count() != 1 {
		t.Errorf("Count after sweep: got %d, want 1", st.Count())
	}
}

func TestMessages_RecordJSONShape(t *testing.T) {
	st := store.New(10 * time.Minute)
	st.Upsert("job:abc", types.Update{
		ServerName:  types.String("Farm A"),
		MoneyPerSec: types.Int64(1500),
		Players:     types.String("5/8"),
		Author:      types.String("bot"),
		JobID:       types.String("abc"),
		ID:          types.String("m1"),
	}, time.Now())

	rec := get(t, api.New(st, nil), "/messages")

	var out []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	m := out[0]
	for _, field := range []string{"serverName", "moneyPerSec", "players", "author", "jobId", "id", "firstSeen", "lastSeen"} {
		if _, ok := m[field]; !ok {
			t.Errorf("field %q missing from JSON output", field)
		}
	}
	if _, ok := m["key"]; ok {
		t.Error("internal key leaked into JSON output")
	}
}

func TestHealth(t *testing.T) {
	st := store.New(10 * time.Minute)
	st.Upsert("job:a", types.Update{}, time.Now())

	rec := get(t, api.New(st, nil), "/health")

	var health api.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if health.FreshCount != 1 || health.TotalCount != 1 {
		t.Errorf("health: got %+v, want 1/1", health)
	}
}

func TestAlerts_NilEngine(t *testing.T) {
	rec := get(t, api.New(store.New(time.Minute), nil), "/alerts")
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := api.New(store.New(time.Minute), nil)
	for _, path := range []string{"/messages", "/health", "/alerts"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status got %d, want 405", path, rec.Code)
		}
	}
}
