package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/TuliEscobar/prueba-trakii/internal/ports"
)

// messageWriter is the subset of *kafkago.Writer used by Publisher
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes reading events to a Kafka topic, keyed by session
// This implements the ports.ReadingSink interface
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher creates a publisher for topic on brokers
func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{writer: w, topic: topic}
}

// Name identifies the sink in logs and metrics
func (p *Publisher) Name() string {
	return "kafka"
}

// Publish writes one event
func (p *Publisher) Publish(ctx context.Context, event ports.ReadingEvent) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Encode builds the Kafka message for event
func Encode(event ports.ReadingEvent) (kafkago.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode reading event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafkago.Header{
			{Key: "band", Value: []byte(event.Band.String())},
		},
	}, nil
}
