package events

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/database"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/joefazee/sportsbook/internal/validator"
	"github.com/joefazee/sportsbook/models"
	"gorm.io/gorm"
)

var (
	// ErrInvalidResult wraps request validation failures
	ErrInvalidResult = errors.New("invalid result")
	// ErrEmptyResult means the request carried neither a score nor a status change
	ErrEmptyResult = errors.New("result carries no score or status")
)

// service implements the Service interface
type service struct {
	repo       Repository
	transactor database.Transactor
	settler    Settler
	logger     logger.Logger
	validator  *playground.Validate
	now        func() time.Time
}

// NewService creates a new event service
func NewService(repo Repository, transactor database.Transactor, settler Settler, log logger.Logger) Service {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &service{
		repo:       repo,
		transactor: transactor,
		settler:    settler,
		logger:     log,
		validator:  playground.New(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateEvent(ctx context.Context, req *CreateEventRequest) (*Response, error) {
	v := validator.New()
	if !req.Validate(v) {
		return nil, validator.NewValidationError("Validation failed", v.Errors)
	}

	event := &models.Event{
		HomeTeam: strings.TrimSpace(req.HomeTeam),
		AwayTeam: strings.TrimSpace(req.AwayTeam),
		Status:   models.EventStatusScheduled,
		StartsAt: req.StartsAt,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return ToResponse(event), nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Response, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return ToResponse(event), nil
}

// RecordResult applies a half-time and/or full-time result. A full-time score
// finishes the event and triggers settlement; posting the same full-time score
// again re-runs settlement without changing the event.
func (s *service) RecordResult(ctx context.Context, id uuid.UUID, req *ResultRequest, source Source) (*ResultResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	if req.Status == models.EventStatusCancelled {
		return s.CancelEvent(ctx, id, source)
	}

	ft, hasFT := req.FullTime()
	ht, hasHT := req.HalfTime()
	switch {
	case hasFT && req.Status != "" && req.Status != models.EventStatusFinished:
		return nil, models.ErrScoreWithoutFinish
	case req.Status == models.EventStatusFinished && !hasFT:
		return nil, models.ErrMissingFullTime
	case !hasFT && !hasHT && req.Status != models.EventStatusLive:
		return nil, ErrEmptyResult
	}

	var (
		event   *models.Event
		changed bool
	)
	err := s.transactor.InTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		event, err = s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := matchLabels(event, req); err != nil {
			return err
		}
		if req.Status == models.EventStatusLive && event.IsFinal() {
			return models.ErrEventAlreadyFinal
		}

		expected := event.Status
		before := resultValues(event)

		if event.Status == models.EventStatusScheduled && (hasHT || req.Status == models.EventStatusLive) {
			event.Status = models.EventStatusLive
		}
		if hasFT {
			if err := event.Finish(ft, s.now()); err != nil {
				return err
			}
		}
		if hasHT {
			if err := event.RecordHalfTime(ht); err != nil {
				return err
			}
		}

		after := resultValues(event)
		if reflect.DeepEqual(before, after) {
			return nil
		}
		changed = true

		if err := repo.UpdateResult(ctx, event, expected); err != nil {
			return err
		}
		after["trigger"] = string(source.Trigger)
		return repo.CreateAuditLog(ctx, models.CreateActorAuditLog(source.ActorID,
			models.AuditActionResultRecorded, models.AuditResourceEvent, &event.ID, before, after))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event result recorded", map[string]interface{}{
		"event_id": event.ID.String(),
		"status":   string(event.Status),
		"changed":  changed,
		"trigger":  string(source.Trigger),
	})

	resp := &ResultResponse{Event: ToResponse(event), Changed: changed}
	// half-time corrections on a finished event leave settlement alone
	if hasFT && event.IsFinished() {
		report, err := s.settler.SettleEvent(ctx, event.ID, source.Trigger)
		s.attach(resp, report, err)
	}
	return resp, nil
}

// CancelEvent calls the event off and refunds its open wagers. Cancelling an
// already cancelled event only re-runs the refund.
func (s *service) CancelEvent(ctx context.Context, id uuid.UUID, source Source) (*ResultResponse, error) {
	var (
		event   *models.Event
		changed bool
	)
	err := s.transactor.InTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		event, err = s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if event.IsCancelled() {
			return nil
		}

		expected := event.Status
		before := resultValues(event)
		if err := event.Cancel(); err != nil {
			return err
		}
		changed = true

		if err := repo.UpdateResult(ctx, event, expected); err != nil {
			return err
		}
		after := resultValues(event)
		after["trigger"] = string(source.Trigger)
		return repo.CreateAuditLog(ctx, models.CreateActorAuditLog(source.ActorID,
			models.AuditActionEventCancelled, models.AuditResourceEvent, &event.ID, before, after))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event cancelled", map[string]interface{}{
		"event_id": event.ID.String(),
		"changed":  changed,
		"trigger":  string(source.Trigger),
	})

	resp := &ResultResponse{Event: ToResponse(event), Changed: changed}
	report, err := s.settler.VoidEvent(ctx, event.ID, source.Trigger)
	s.attach(resp, report, err)
	return resp, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Event, error) {
	event, err := repo.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

// attach adds the settlement outcome. The result itself is already committed,
// so a settlement failure is reported rather than returned.
func (s *service) attach(resp *ResultResponse, report *settlement.Report, err error) {
	if err != nil {
		s.logger.Error(err, map[string]interface{}{"event_id": resp.Event.ID.String(), "stage": "settle"})
		resp.SettlementError = err.Error()
		return
	}
	resp.Report = report
}

func matchLabels(event *models.Event, req *ResultRequest) error {
	if req.EventID != uuid.Nil && req.EventID != event.ID {
		return models.ErrTeamMismatch
	}
	if req.HomeLabel != "" && !strings.EqualFold(strings.TrimSpace(req.HomeLabel), event.HomeTeam) {
		return models.ErrTeamMismatch
	}
	if req.AwayLabel != "" && !strings.EqualFold(strings.TrimSpace(req.AwayLabel), event.AwayTeam) {
		return models.ErrTeamMismatch
	}
	return nil
}

func resultValues(e *models.Event) models.AuditValues {
	deref := func(p *int) interface{} {
		if p == nil {
			return nil
		}
		return *p
	}
	return models.AuditValues{
		"status":        string(e.Status),
		"home_goals":    deref(e.HomeGoals),
		"away_goals":    deref(e.AwayGoals),
		"ht_home_goals": deref(e.HTHomeGoals),
		"ht_away_goals": deref(e.HTAwayGoals),
	}
}
