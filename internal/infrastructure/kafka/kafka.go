package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Envelope wraps every event on the bus with its type and timestamp so
// consumers can route without knowing the payload shape.
type Envelope struct {
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Publisher writes enveloped events to a single topic.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: writer}
}

// Publish marshals the payload into an Envelope and writes it keyed by
// the given key so events for one entity stay ordered.
func (p *Publisher) Publish(ctx context.Context, key, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	env := Envelope{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now(),
		Data:       data,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// EnvelopeHandler processes one decoded event from the bus.
type EnvelopeHandler func(ctx context.Context, env Envelope) error

// Subscriber consumes enveloped events within a consumer group.
type Subscriber struct {
	reader *kafka.Reader
}

func NewSubscriber(brokers []string, topic, groupID string) *Subscriber {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &Subscriber{reader: reader}
}

// Run consumes until the context is cancelled. Handler errors are logged
// and the loop continues; there is no retry or dead-lettering.
func (s *Subscriber) Run(ctx context.Context, handler EnvelopeHandler) error {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[Kafka] Error reading message: %v", err)
			continue
		}

		var env Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			log.Printf("[Kafka] Skipping undecodable message at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handler(ctx, env); err != nil {
			log.Printf("[Kafka] Error handling %s event: %v", env.Type, err)
		}
	}
}

func (s *Subscriber) Close() error {
	return s.reader.Close()
}
