package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader used by consumers
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// MessageWriter is the subset of *kafka.Writer used by publishers
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds the broker connection settings
type Config struct {
	Brokers       string `env:"KAFKA_BROKERS"`
	ResultsTopic  string `env:"KAFKA_RESULTS_TOPIC" env-default:"event_results"`
	SettledTopic  string `env:"KAFKA_SETTLED_TOPIC" env-default:"wager_settled"`
	ConsumerGroup string `env:"KAFKA_CONSUMER_GROUP" env-default:"settlement-worker"`
}

// Enabled reports whether any broker address is configured
func (c *Config) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}

// BrokerList splits the comma separated broker addresses
func (c *Config) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// WriteJSON marshals payload and writes it under key
func WriteJSON(ctx context.Context, w MessageWriter, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// ErrSkipMessage tells the consumer the message is unusable and should be dropped
var ErrSkipMessage = errors.New("skip message")

// HandlerFunc processes one message
type HandlerFunc func(ctx context.Context, msg kafka.Message) error

// Consumer reads messages until its context is cancelled. Read failures are
// retried after RetryDelay; handler failures are logged and the message is
// dropped so one bad payload cannot wedge the partition.
type Consumer struct {
	Reader     MessageReader
	Handle     HandlerFunc
	Logger     logger.Logger
	RetryDelay time.Duration

	OnError func(stage string)
}

// Run blocks until ctx is done
func (c *Consumer) Run(ctx context.Context) error {
	delay := c.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	for {
		msg, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Logger.Warn("kafka read failed", map[string]interface{}{"error": err.Error()})
			c.failed("read")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if err := c.Handle(ctx, msg); err != nil {
			props := map[string]interface{}{
				"topic":     msg.Topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
				"key":       string(msg.Key),
			}
			if errors.Is(err, ErrSkipMessage) {
				props["reason"] = err.Error()
				c.Logger.Warn("kafka message skipped", props)
				c.failed("decode")
				continue
			}
			c.Logger.Error(err, props)
			c.failed("handle")
		}
	}
}

func (c *Consumer) failed(stage string) {
	if c.OnError != nil {
		c.OnError(stage)
	}
}
