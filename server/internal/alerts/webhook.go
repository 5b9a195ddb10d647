package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

// deliver sends webhook notifications for a to all configured targets.
// Errors are logged but do not affect the caller.
func (e *Engine) deliver(a *Alert) {
	e.mu.Lock()
	webhooks := e.webhooks
	e.mu.Unlock()

	for _, wh := range webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "discord":
			err = e.sendDiscord(url, a)
		case "slack":
			err = e.sendSlack(url, a)
		case "http":
			err = e.sendHTTP(url, a)
		default:
			slog.Warn("alerts: unknown webhook type — skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("alerts: webhook delivery failed",
				"type", wh.Type,
				"rule", a.RuleName,
				"err", err,
			)
		} else {
			slog.Debug("alerts: webhook delivered",
				"type", wh.Type,
				"rule", a.RuleName,
				"state", a.State,
			)
		}
	}
}

func (e *Engine) sendDiscord(url string, a *Alert) error {
	body, _ := json.Marshal(map[string]string{ //nolint:errcheck
		"content": webhookText(a),
	})
	return e.post(url, body)
}

func (e *Engine) sendSlack(url string, a *Alert) error {
	body, _ := json.Marshal(map[string]string{ //nolint:errcheck
		"text": webhookText(a),
	})
	return e.post(url, body)
}

// sendHTTP posts the full alert as JSON to a generic endpoint.
func (e *Engine) sendHTTP(url string, a *Alert) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return e.post(url, body)
}

func (e *Engine) post(url string, body []byte) error {
	resp, err := e.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func webhookText(a *Alert) string {
	if a.State == "resolved" {
		return fmt.Sprintf("✅ resolved: %s on %s", a.RuleName, a.RecordKey)
	}
	return fmt.Sprintf("🚨 %s", a.Message)
}
