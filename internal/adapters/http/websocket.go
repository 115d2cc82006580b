package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/geoflex/internal/adapters/nats"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "stored" | "computed" | "failures" | "updates"
	Kind    string `json:"kind"`    // geometry kind filter for "stored" (optional)
}

// wsSubject maps a channel (and kind filter) to a NATS subject.
func wsSubject(m wsMessage) (string, bool) {
	switch m.Channel {
	case "", "stored":
		if m.Kind != "" {
			return natsadapter.SubjectStoredPrefix + m.Kind, true
		}
		return natsadapter.SubjectStoredPrefix + ">", true
	case "computed":
		return natsadapter.SubjectRouteComputed, true
	case "failures":
		return natsadapter.SubjectDecodeFailed, true
	case "updates":
		return natsadapter.SubjectBroadcast, true
	}
	return "", false
}

// WebSocketHandler relays geometry events from NATS to connected clients.
// Clients send JSON such as {"action":"subscribe","channel":"stored","kind":"isoline"}.
// Every connection starts subscribed to all stored geometries and to
// broadcast updates.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.With("remote", c.RemoteAddr().String())
		log.Info("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) {
			_ = writeJSON(wsEnvelope{Subject: msg.Subject, Data: json.RawMessage(msg.Data)})
		}

		subs := make(map[string]*nats.Subscription)
		for _, subject := range []string{natsadapter.SubjectStoredPrefix + ">", natsadapter.SubjectBroadcast} {
			sub, err := nc.Subscribe(subject, relay)
			if err != nil {
				log.Error("ws default subscribe", "subject", subject, "error", err)
				return
			}
			subs[subject] = sub
		}

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
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			subject, ok := wsSubject(m)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + m.Channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
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
		log.Info("ws client disconnected")
	}
}

// wsEnvelope wraps a relayed event with the subject it arrived on.
type wsEnvelope struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}
