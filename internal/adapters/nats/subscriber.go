package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geoflex/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

// NewSubscriber connects to NATS. durable names the consumer so restarts
// resume where the last run stopped.
func NewSubscriber(url, durable string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js, durable: durable}, nil
}

func (s *Subscriber) SubscribeRouteComputed(ctx context.Context, handler func(ctx context.Context, event *domain.GeometryEvent) error) error {
	sub, err := s.js.Subscribe(SubjectRouteComputed, func(msg *nats.Msg) {
		deliver(ctx, msg.Data, msg, handler)
	},
		nats.Durable(s.durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// acker is the part of *nats.Msg that deliver needs.
type acker interface {
	Ack(opts ...nats.AckOpt) error
	Nak(opts ...nats.AckOpt) error
	Term(opts ...nats.AckOpt) error
}

// deliver decodes one message and hands it to handler. Payloads that are
// not valid JSON are terminated since redelivery cannot fix them; handler
// errors are retried up to MaxDeliver.
func deliver(ctx context.Context, data []byte, m acker, handler func(ctx context.Context, event *domain.GeometryEvent) error) {
	var event domain.GeometryEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Warn("dropping malformed geometry event", "error", err)
		_ = m.Term()
		return
	}
	if err := handler(ctx, &event); err != nil {
		slog.Warn("geometry event handler failed", "source", event.Source, "error", err)
		_ = m.Nak()
		return
	}
	_ = m.Ack()
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
