package shipper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/farmwatch/farmwatch/collector/internal/config"
	"github.com/farmwatch/farmwatch/pkg/types"
)

// forwardTimeout bounds a single delivery attempt, connection included.
const forwardTimeout = 6 * time.Second

// Ack mirrors the server's ingest response.
type Ack struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Shipper POSTs record updates to a single ingest endpoint. Deliveries are
// at-most-once: a failed POST is reported to the caller and not retried.
type Shipper struct {
	endpoint   string
	authMode   string
	authHeader string
	authKey    string
	client     *http.Client
}

// New builds a Shipper for the configured endpoint. The API key (if any) is
// resolved from the environment once, at construction.
func New(cfg config.CollectorConfig) *Shipper {
	return &Shipper{
		endpoint:   cfg.ServerEndpoint,
		authMode:   cfg.ServerAuth.Mode,
		authHeader: cfg.ServerAuth.EffectiveHeader(),
		authKey:    cfg.ServerAuth.Key(),
		client:     &http.Client{Timeout: forwardTimeout},
	}
}

// Forward delivers a single update to the ingest endpoint. It returns an
// error on network failure, non-2xx status, or an unparseable response.
// A failed delivery is not retried.
func (s *Shipper) Forward(ctx context.Context, u types.Update) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("shipper: encode update: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, forwardTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shipper: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authMode == "apikey" && s.authKey != "" {
		req.Header.Set(s.authHeader, s.authKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("shipper: post %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the error message; the server
		// returns small JSON payloads.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("shipper: post %s: status %d: %s", s.endpoint, resp.StatusCode, snippet)
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("shipper: decode ack: %w", err)
	}
	slog.Debug("shipper: delivered", "status", ack.Status, "server_count", ack.Count)
	return nil
}
