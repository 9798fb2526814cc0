package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain event types.
const (
	TypeInterviewCompleted = "interview.completed"
	TypeNoteUploaded       = "note.uploaded"
	TypeNoteApproved       = "note.approved"
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// NewEvent wraps data in an envelope stamped with a fresh id.
func NewEvent(source, eventType string, data interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Subject returns the broker subject for eventType under prefix.
func Subject(prefix, eventType string) string {
	prefix = strings.Trim(prefix, ". ")
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// NATSPublisher publishes events to NATS subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	source string
}

// NewNATSPublisher returns a publisher over an established connection.
func NewNATSPublisher(conn *nats.Conn, prefix, source string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix, source: source}
}

// Publish encodes the event and hands it to the NATS client.
func (p *NATSPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	if p.conn == nil {
		return errors.New("nats connection not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(NewEvent(p.source, eventType, data))
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	if err := p.conn.Publish(Subject(p.prefix, eventType), payload); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	return nil
}

// RedisPublisher publishes events over Redis pub/sub channels.
type RedisPublisher struct {
	client *redis.Client
	prefix string
	source string
}

// NewRedisPublisher returns a publisher over a Redis client.
func NewRedisPublisher(client *redis.Client, prefix, source string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix, source: source}
}

// Publish encodes the event and publishes it on the matching channel.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	if p.client == nil {
		return errors.New("redis client not configured")
	}

	payload, err := json.Marshal(NewEvent(p.source, eventType, data))
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	if err := p.client.Publish(ctx, Subject(p.prefix, eventType), payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	return nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) error { return nil }

// BestEffort logs publish failures instead of returning them.
type BestEffort struct {
	next   Publisher
	logger zerolog.Logger
}

// NewBestEffort wraps next so that broker outages never fail the calling operation.
func NewBestEffort(next Publisher, logger zerolog.Logger) *BestEffort {
	if next == nil {
		next = Nop{}
	}
	return &BestEffort{next: next, logger: logger.With().Str("component", "event_publisher").Logger()}
}

func (b *BestEffort) Publish(ctx context.Context, eventType string, data interface{}) error {
	if err := b.next.Publish(ctx, eventType, data); err != nil {
		b.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish domain event")
	}
	return nil
}
