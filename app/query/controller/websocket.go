package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/notify"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: In production, restrict to specific origins
		return true
	},
}

// ServerMessage represents messages sent to WebSocket clients.
type ServerMessage struct {
	Type    string      `json:"type"`    // "season.advanced", "info", "error"
	Payload interface{} `json:"payload"` // Event-specific data
}

// HandleSeasonSocket upgrades the connection and streams season advances as
// they are published on Redis. There is nothing to subscribe to: every client
// receives every season.
//
// Server sends:
// - {"type": "season.advanced", "payload": {...}}
// - {"type": "info", "payload": {"message": "..."}}
// - {"type": "error", "payload": {"message": "..."}}
func (c *Controller) HandleSeasonSocket(w http.ResponseWriter, r *http.Request) {
	if c.App.Notifier == nil {
		http.Error(w, "Real-time events not available (Redis disabled)", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.App.Logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.App.Logger.Error("Failed to close WebSocket connection", zap.Error(err))
		}
	}()

	c.App.Logger.Info("WebSocket client connected", zap.String("remote_addr", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan ServerMessage, 64)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				c.App.Logger.Error("Panic in season forwarder goroutine",
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("remote_addr", r.RemoteAddr))
				cancel()
			}
		}()
		c.forwardSeasons(ctx, send)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.sendPings(ctx, conn)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writeMessages(conn, send)
	}()

	// Read loop exists only to detect closure and answer control frames.
	c.awaitClose(conn, cancel)

	close(send)
	wg.Wait()

	c.App.Logger.Info("WebSocket client disconnected", zap.String("remote_addr", r.RemoteAddr))
}

// forwardSeasons relays the Redis season channel into the send channel,
// reconnecting with exponential backoff when the subscription drops.
func (c *Controller) forwardSeasons(ctx context.Context, send chan<- ServerMessage) {
	const (
		initialBackoff = 1 * time.Second
		maxBackoff     = 30 * time.Second
	)
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pubsub := c.App.Notifier.Subscribe(ctx, notify.ChannelSeasons)
		ch := pubsub.Channel()

	receive:
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break receive
				}
				backoff = initialBackoff

				var payload map[string]interface{}
				if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
					c.App.Logger.Error("Failed to parse season message", zap.Error(err))
					continue
				}
				select {
				case send <- ServerMessage{Type: "season.advanced", Payload: payload}:
				case <-ctx.Done():
					_ = pubsub.Close()
					return
				}
			}
		}
		_ = pubsub.Close()

		c.App.Logger.Warn("Redis season subscription dropped, will retry",
			zap.Duration("backoff", backoff))
		select {
		case send <- ServerMessage{Type: "error", Payload: map[string]any{
			"message": "Redis connection lost, attempting to reconnect...",
			"retryIn": backoff.Seconds(),
		}}:
		case <-ctx.Done():
			return
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// sendPings sends periodic WebSocket ping frames to keep the connection alive.
func (c *Controller) sendPings(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				c.App.Logger.Error("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// writeMessages writes messages from the send channel to the connection.
func (c *Controller) writeMessages(conn *websocket.Conn, send <-chan ServerMessage) {
	for msg := range send {
		if err := conn.WriteJSON(msg); err != nil {
			c.App.Logger.Error("Failed to write WebSocket message", zap.Error(err))
			return
		}
	}
}

// awaitClose consumes client frames until the connection dies, refreshing the
// read deadline on pong.
func (c *Controller) awaitClose(conn *websocket.Conn, cancel context.CancelFunc) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.App.Logger.Error("WebSocket read error", zap.Error(err))
			}
			cancel()
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}
