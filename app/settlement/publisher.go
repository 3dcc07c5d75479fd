package settlement

import (
	"context"

	"github.com/joefazee/sportsbook/internal/broker"
)

type kafkaPublisher struct {
	writer broker.MessageWriter
}

// NewKafkaPublisher publishes WagerSettled messages keyed by wager id
func NewKafkaPublisher(writer broker.MessageWriter) Publisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) PublishSettled(ctx context.Context, msg *WagerSettled) error {
	return broker.WriteJSON(ctx, p.writer, msg.WagerID.String(), msg)
}

// NopPublisher drops every message. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSettled(context.Context, *WagerSettled) error { return nil }
