package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

// Subjects used by the dashboard.
const (
	SubjectReadings    = "sensors.readings"
	SubjectReadingsAll = SubjectReadings + ".>"
	SubjectRefresh     = "dashboard.refresh"
)

// ReadingSubject is the subject a sensor publishes its readings on.
func ReadingSubject(host string) string {
	return SubjectReadings + "." + host
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the readings stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
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

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	streams := []nats.StreamConfig{
		{
			Name:      "SENSOR_READINGS",
			Subjects:  []string{SubjectReadingsAll},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

// PublishReading queues a reading for ingestion.
func (p *Publisher) PublishReading(ctx context.Context, r *domain.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ReadingSubject(r.Host), data, nats.Context(ctx))
	return err
}

// PublishRefresh broadcasts a refresh tick. Refresh events are fire and
// forget: a client that misses one catches the next.
func (p *Publisher) PublishRefresh(ctx context.Context, event *domain.RefreshEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectRefresh, data)
}

// Conn exposes the underlying connection for relays.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Connect opens a NATS connection that keeps reconnecting.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}
