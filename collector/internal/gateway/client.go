package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farmwatch/farmwatch/collector/internal/config"
	"github.com/farmwatch/farmwatch/collector/internal/parse"
	"github.com/farmwatch/farmwatch/pkg/types"
)

// Gateway opcodes. Only the hello/heartbeat/identify handshake is spoken;
// everything else arrives as dispatch frames keyed by the "t" field.
const (
	opHeartbeat = 1
	opIdentify  = 2
	opHello     = 10
)

// identifyIntents requests guild messages plus message content.
const identifyIntents = 513

const (
	defaultRetryWait = 5 * time.Second
	writeTimeout     = 10 * time.Second
)

var (
	sessionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmwatch_collector_gateway_sessions_total",
		Help: "Gateway sessions opened, including reconnects.",
	})
	forwardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmwatch_collector_messages_forwarded_total",
		Help: "Parsed messages successfully forwarded to the server.",
	})
	forwardErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmwatch_collector_forward_errors_total",
		Help: "Forward attempts that failed and were dropped.",
	})
)

func init() {
	prometheus.MustRegister(sessionsTotal, forwardedTotal, forwardErrorsTotal)
}

// Forwarder delivers one parsed update to the aggregation server.
type Forwarder interface {
	Forward(ctx context.Context, u types.Update) error
}

// Client maintains a gateway session and republishes parsed messages from
// the watched channel. On any session error it reconnects after a fixed
// delay, indefinitely, until its context is cancelled.
type Client struct {
	url       string
	token     string
	channelID string
	forwarder Forwarder

	retryWait time.Duration

	// writeMu serializes frame writes: the heartbeat goroutine and the
	// read-loop handshake replies share one connection.
	writeMu sync.Mutex
}

// New builds a gateway client from the collector configuration. The token
// is resolved from the environment once, at construction.
func New(cfg config.CollectorConfig, f Forwarder) *Client {
	return &Client{
		url:       cfg.GatewayURL,
		token:     cfg.Token(),
		channelID: cfg.ChannelID,
		forwarder: f,
		retryWait: defaultRetryWait,
	}
}

// frame is a raw gateway frame. D is kept opaque until the opcode or
// dispatch type is known.
type frame struct {
	T  string          `json:"t"`
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
}

type helloData struct {
	HeartbeatInterval float64 `json:"heartbeat_interval"` // milliseconds
}

type identifyProperties struct {
	OS      string `json:"$os"`
	Browser string `json:"$browser"`
	Device  string `json:"$device"`
}

type identifyData struct {
	Token      string             `json:"token"`
	Intents    int                `json:"intents"`
	Properties identifyProperties `json:"properties"`
}

// outFrame is an outbound frame. D marshals to null for heartbeats.
type outFrame struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

// Run connects and processes frames until ctx is cancelled. Every session
// end, clean or not, is followed by a fixed retryWait pause before the
// next dial.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.session(ctx); err != nil && ctx.Err() == nil {
			slog.Error("gateway: session ended", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retryWait):
		}
	}
}

// session dials the gateway and runs one read loop to completion.
func (c *Client) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()

	sessionsTotal.Inc()
	slog.Info("gateway: connected", "url", c.url)

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock the read loop when the context is cancelled.
	go func() {
		<-sessCtx.Done()
		conn.Close()
	}()

	var hbCancel context.CancelFunc
	defer func() {
		if hbCancel != nil {
			hbCancel()
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			slog.Debug("gateway: skipping malformed frame", "err", err)
			continue
		}

		switch {
		case f.Op == opHello:
			var hello helloData
			if err := json.Unmarshal(f.D, &hello); err != nil || hello.HeartbeatInterval <= 0 {
				slog.Warn("gateway: hello without usable heartbeat interval")
				continue
			}
			if hbCancel != nil {
				hbCancel()
			}
			hbCtx, hbCancelNew := context.WithCancel(sessCtx)
			hbCancel = hbCancelNew
			interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond
			go c.heartbeat(hbCtx, conn, interval)

			if err := c.identify(conn); err != nil {
				return fmt.Errorf("identify: %w", err)
			}

		case f.T == "MESSAGE_CREATE":
			c.handleMessage(sessCtx, f.D)
		}
	}
}

// identify authenticates the session right after hello.
func (c *Client) identify(conn *websocket.Conn) error {
	return c.send(conn, outFrame{
		Op: opIdentify,
		D: identifyData{
			Token:   c.token,
			Intents: identifyIntents,
			Properties: identifyProperties{
				OS:      "linux",
				Browser: "farmwatch",
				Device:  "farmwatch",
			},
		},
	})
}

// heartbeat sends op-1 frames at the server-provided interval until its
// context is cancelled.
func (c *Client) heartbeat(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.send(conn, outFrame{Op: opHeartbeat, D: nil}); err != nil {
				slog.Warn("gateway: heartbeat write failed", "err", err)
				return
			}
		}
	}
}

// handleMessage parses one MESSAGE_CREATE dispatch and forwards anything
// that yields a usable record. A message from another channel, or one
// where parsing found neither a job ID nor a server name, is dropped.
func (c *Client) handleMessage(ctx context.Context, raw json.RawMessage) {
	var msg parse.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.Debug("gateway: skipping malformed message", "err", err)
		return
	}
	if msg.ChannelID != c.channelID {
		return
	}

	res := parse.Extract(&msg)
	if res.JobID == "" && res.ServerName == "" {
		return
	}

	author := msg.Author.Username
	if author == "" {
		author = "Unknown"
	}

	u := types.Update{
		ID:          types.String(msg.ID),
		ServerName:  types.String(res.ServerName),
		MoneyPerSec: types.Int64(res.MoneyPerSec),
		Players:     types.String(res.Players),
		Author:      types.String(author),
		JobID:       types.String(res.JobID),
	}

	if err := c.forwarder.Forward(ctx, u); err != nil {
		forwardErrorsTotal.Inc()
		slog.Warn("gateway: forward failed, dropping update",
			"key", u.Key(), "err", err)
		return
	}
	forwardedTotal.Inc()
	slog.Debug("gateway: forwarded", "key", u.Key(), "server", res.ServerName)
}

// send writes one frame under the write lock with a deadline.
func (c *Client) send(conn *websocket.Conn, v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}
