package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/internal/broker"
	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/joefazee/sportsbook/internal/metrics"
	"github.com/joefazee/sportsbook/models"
	"github.com/segmentio/kafka-go"
)

// Feed message outcomes recorded on the feed counter
const (
	FeedProcessed = "processed"
	FeedInvalid   = "invalid"
	FeedRejected  = "rejected"
	FeedFailed    = "failed"
)

// FeedConsumer turns results-feed messages into result entries
type FeedConsumer struct {
	service Service
	metrics metrics.Recorder
	logger  logger.Logger
}

func NewFeedConsumer(service Service, recorder metrics.Recorder, log logger.Logger) *FeedConsumer {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &FeedConsumer{service: service, metrics: recorder, logger: log}
}

// Consumer wires the handler to a reader
func (f *FeedConsumer) Consumer(reader broker.MessageReader) *broker.Consumer {
	return &broker.Consumer{
		Reader: reader,
		Handle: f.Handle,
		Logger: f.logger,
		OnError: func(stage string) {
			f.metrics.SettlementError("feed_" + stage)
		},
	}
}

// Handle processes one feed message. Malformed payloads and results the
// event cannot accept are wrapped in broker.ErrSkipMessage; anything else is
// an infrastructure failure.
func (f *FeedConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var req ResultRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		f.metrics.FeedMessage(FeedInvalid)
		return fmt.Errorf("%w: %v", broker.ErrSkipMessage, err)
	}
	if req.EventID == uuid.Nil {
		f.metrics.FeedMessage(FeedInvalid)
		return fmt.Errorf("%w: event_id is required", broker.ErrSkipMessage)
	}

	source := Source{Trigger: models.TriggerFeed}

	var (
		resp *ResultResponse
		err  error
	)
	if req.Status == models.EventStatusCancelled {
		resp, err = f.service.CancelEvent(ctx, req.EventID, source)
	} else {
		resp, err = f.service.RecordResult(ctx, req.EventID, &req, source)
	}
	if err != nil {
		if isRejection(err) {
			f.metrics.FeedMessage(FeedRejected)
			return fmt.Errorf("%w: %v", broker.ErrSkipMessage, err)
		}
		f.metrics.FeedMessage(FeedFailed)
		return fmt.Errorf("failed to apply feed result for event %s: %w", req.EventID, err)
	}

	f.metrics.FeedMessage(FeedProcessed)
	if resp.SettlementError != "" {
		f.logger.Warn("feed result recorded but settlement failed", map[string]interface{}{
			"event_id": req.EventID.String(),
			"error":    resp.SettlementError,
		})
	}
	return nil
}

// isRejection reports errors caused by the message itself. Retrying these can
// never succeed.
func isRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidResult,
		ErrEmptyResult,
		models.ErrRecordNotFound,
		models.ErrResultConflict,
		models.ErrEventAlreadyFinal,
		models.ErrTeamMismatch,
		models.ErrInvalidScore,
		models.ErrScoreWithoutFinish,
		models.ErrMissingFullTime,
		models.ErrHalfTimeNotAllowed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
