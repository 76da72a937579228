package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer reads one topic and hands decoded booking events to a handler.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks reading events until the context is canceled or the handler
// fails. Payloads that do not decode as a BookingEvent are logged and skipped
// rather than wedging the consumer group.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			log.Printf("WARNING: dropping undecodable event from %s: %v", msg.Topic, err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeEvent(payload []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return BookingEvent{}, err
	}
	return event, nil
}
