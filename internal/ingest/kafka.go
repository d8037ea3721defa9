package ingest

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer relies on.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads call events from a Kafka topic, one event per message.
type Consumer struct {
	reader MessageReader
	handle func(Event) error
}

// NewKafkaReader returns a consumer group reader for topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

func NewConsumer(reader MessageReader, handle func(Event) error) *Consumer {
	return &Consumer{reader: reader, handle: handle}
}

// Run consumes messages until ctx is done or the reader fails. Messages
// that don't decode or that handle rejects are logged and skipped.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		ev, err := Unmarshal(m.Value)
		if err != nil {
			log.Warn().Err(err).Str("topic", m.Topic).Int64("offset", m.Offset).Msg("skipping undecodable call event")
			continue
		}
		if err := c.handle(ev); err != nil {
			log.Warn().Err(err).Str("function", ev.Name).Int64("offset", m.Offset).Msg("skipping call event")
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
