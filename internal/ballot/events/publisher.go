// Package events publishes ballot lifecycle notifications so downstream
// consumers (favorites sync, analytics) learn about election changes
// without polling user records.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicElectionUpdated carries one message per merged-election change.
const TopicElectionUpdated = "ballot.election.updated"

// ElectionUpdated is the wire payload for TopicElectionUpdated. UserID keys
// the message so per-user ordering is preserved across partitions.
type ElectionUpdated struct {
	UserID     string    `json:"userId"`
	ElectionID string    `json:"electionId,omitempty"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Publisher emits ballot events.
type Publisher interface {
	ElectionUpdated(ctx context.Context, event ElectionUpdated) error
	Close()
}

// KafkaPublisher produces events through franz-go.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithLogger sets the publisher's logger.
func WithLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewKafka connects a producer to the given brokers.
func NewKafka(brokers []string, opts ...KafkaOption) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	p := &KafkaPublisher{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// ElectionUpdated produces asynchronously. A failed produce is logged, not
// returned: event delivery must never fail a ballot refresh.
func (p *KafkaPublisher) ElectionUpdated(ctx context.Context, event ElectionUpdated) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode election updated event: %w", err)
	}
	record := &kgo.Record{
		Topic: TopicElectionUpdated,
		Key:   []byte(event.UserID),
		Value: body,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("produce election updated event",
				"user_id", event.UserID,
				"election_id", event.ElectionID,
				"error", err)
		}
	})
	return nil
}

// Close flushes pending records and releases the client.
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) ElectionUpdated(context.Context, ElectionUpdated) error { return nil }
func (NoopPublisher) Close()                                                {}
