package types

import "github.com/google/uuid"

// Record is one observed game-server state, deduplicated by Key.
// Timestamps are Unix seconds. FirstSeen is set once at creation;
// LastSeen is refreshed on every observation of the same key.
type Record struct {
	Key         string `json:"-"`
	ServerName  string `json:"serverName"`
	MoneyPerSec int64  `json:"moneyPerSec"`
	Players     string `json:"players"`
	Author      string `json:"author"`
	JobID       string `json:"jobId"`
	ID          string `json:"id"`
	FirstSeen   int64  `json:"firstSeen"`
	LastSeen    int64  `json:"lastSeen"`
}

// Update is a partial Record as posted to the ingest endpoint. Pointer
// fields distinguish "key absent" (keep the stored value) from "key present
// but empty" (overwrite with the empty value), so a JSON body behaves like
// a field-by-field overlay on the stored Record.
type Update struct {
	ID          *string `json:"id,omitempty"`
	ServerName  *string `json:"serverName,omitempty"`
	MoneyPerSec *int64  `json:"moneyPerSec,omitempty"`
	Players     *string `json:"players,omitempty"`
	Author      *string `json:"author,omitempty"`
	JobID       *string `json:"jobId,omitempty"`
}

// Key derives the deduplication identity for an update. Items carrying a
// non-empty jobId share a key across messages ("job:<jobId>"); anything else
// keys on its source message ID, or a random token when that is absent too.
func (u Update) Key() string {
	if u.JobID != nil && *u.JobID != "" {
		return "job:" + *u.JobID
	}
	if u.ID != nil && *u.ID != "" {
		return "msg:" + *u.ID
	}
	return "msg:" + uuid.NewString()
}

// Apply overlays the update's present fields onto r. Absent fields keep
// their stored values. Timestamps are managed by the store, not here.
func (u Update) Apply(r *Record) {
	if u.ID != nil {
		r.ID = *u.ID
	}
	if u.ServerName != nil {
		r.ServerName = *u.ServerName
	}
	if u.MoneyPerSec != nil {
		r.MoneyPerSec = *u.MoneyPerSec
	}
	if u.Players != nil {
		r.Players = *u.Players
	}
	if u.Author != nil {
		r.Author = *u.Author
	}
	if u.JobID != nil {
		r.JobID = *u.JobID
	}
}

// String returns a pointer to s, for building Update literals.
func String(s string) *string { return &s }

// Int64 returns a pointer to n, for building Update literals.
func Int64(n int64) *int64 { return &n }
