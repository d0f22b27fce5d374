// Package kafkapub delivers lifecycle envelopes to a Kafka topic. The record
// key is the notification channel, so a channel's events share a partition
// and keep their order.
package kafkapub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"tempo/internal/attendance/events"
)

// Header names set on every record.
const (
	HeaderChannel = "channel"
	HeaderEvent   = "event"
)

// Producer is the subset of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher produces one record per channel delivery.
type Publisher struct {
	producer Producer
	topic    string
}

// New constructs a Kafka publisher writing to topic.
func New(producer Producer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Publish implements events.Publisher.
func (p *Publisher) Publish(ctx context.Context, channel string, env events.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(channel),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: HeaderChannel, Value: []byte(channel)},
			{Key: HeaderEvent, Value: []byte(env.Event)},
		},
		Timestamp: env.Data.OccurredAt,
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka produce %s: %w", channel, err)
	}
	return nil
}
