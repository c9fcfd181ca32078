package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/gridsquare/internal/adapters/nats"
	"github.com/samirrijal/gridsquare/internal/pkg/metrics"
	"github.com/samirrijal/gridsquare/internal/pkg/osgrid"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "squares" (default) | "regions"
	Ref     string `json:"ref"`     // squares only: a single grid reference, "" = all
	Region  string `json:"region"`  // regions only: a region slug, "" = all
}

// wsSubject maps a client request onto a NATS subject. ok is false for an
// unknown channel or a malformed reference.
func wsSubject(m wsMessage) (subject string, ok bool) {
	switch m.Channel {
	case "", "squares":
		if m.Ref == "" {
			return natsadapter.SquareViewedWildcard, true
		}
		ref, err := osgrid.ParseGridRef(m.Ref)
		if err != nil {
			return "", false
		}
		return natsadapter.SquareSubject(ref.Text), true
	case "regions":
		if m.Region == "" {
			return natsadapter.RegionUpdatedWildcard, true
		}
		return natsadapter.RegionSubject(m.Region), true
	}
	return "", false
}

// WebSocketHandler returns a handler that relays grid events from NATS to
// connected clients. Every client starts subscribed to all square views.
// Clients send JSON such as {"action":"subscribe","channel":"squares","ref":"TQ3080"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		if nc == nil {
			_ = c.WriteJSON(map[string]string{"error": "event stream not available"})
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(subject string) error {
			s, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				return err
			}
			subs[subject] = s
			return nil
		}

		if err := subscribe(natsadapter.SquareViewedWildcard); err != nil {
			slog.Error("ws default subscribe failed", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject, ok := wsSubject(m)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel or bad reference"})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				if err := subscribe(subject); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
