package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/internal/validator"
	"github.com/joefazee/sportsbook/models"
)

// Source identifies who is entering a result
type Source struct {
	Trigger models.SettlementTrigger
	ActorID *uuid.UUID
}

// CreateEventRequest registers a fixture so results can be recorded against it
type CreateEventRequest struct {
	HomeTeam string    `json:"home_team" binding:"required"`
	AwayTeam string    `json:"away_team" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
}

const maxTeamNameRunes = 120

func (r *CreateEventRequest) Validate(v *validator.Validator) bool {
	v.Check(validator.NotBlank(r.HomeTeam), "home_team", "home team is required")
	v.Check(validator.NotBlank(r.AwayTeam), "away_team", "away team is required")
	v.Check(validator.MaxRunes(strings.TrimSpace(r.HomeTeam), maxTeamNameRunes), "home_team", "home team must be at most 120 characters")
	v.Check(validator.MaxRunes(strings.TrimSpace(r.AwayTeam), maxTeamNameRunes), "away_team", "away team must be at most 120 characters")
	v.Check(!validator.SameName(r.HomeTeam, r.AwayTeam), "away_team", "a team cannot play itself")
	v.Check(!r.StartsAt.IsZero(), "starts_at", "kick-off time is required")
	return v.Valid()
}

// ResultRequest is the result shape shared by admin entry and the results feed.
// Labels are optional and, when present, must match the event's teams.
type ResultRequest struct {
	EventID     uuid.UUID          `json:"event_id,omitempty"`
	HomeLabel   string             `json:"home_label,omitempty"`
	AwayLabel   string             `json:"away_label,omitempty"`
	Status      models.EventStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled live finished cancelled"`
	HomeGoals   *int               `json:"home_goals,omitempty" validate:"omitempty,min=0"`
	AwayGoals   *int               `json:"away_goals,omitempty" validate:"omitempty,min=0"`
	HTHomeGoals *int               `json:"ht_home_goals,omitempty" validate:"omitempty,min=0"`
	HTAwayGoals *int               `json:"ht_away_goals,omitempty" validate:"omitempty,min=0"`
}

// FullTime returns the full-time score when both sides are given
func (r *ResultRequest) FullTime() (models.Score, bool) {
	if r.HomeGoals == nil || r.AwayGoals == nil {
		return models.Score{}, false
	}
	return models.Score{Home: *r.HomeGoals, Away: *r.AwayGoals}, true
}

// HalfTime returns the half-time score when both sides are given
func (r *ResultRequest) HalfTime() (models.Score, bool) {
	if r.HTHomeGoals == nil || r.HTAwayGoals == nil {
		return models.Score{}, false
	}
	return models.Score{Home: *r.HTHomeGoals, Away: *r.HTAwayGoals}, true
}

// Response represents an event in API responses
type Response struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	HomeTeam   string             `json:"home_team"`
	AwayTeam   string             `json:"away_team"`
	Status     models.EventStatus `json:"status"`
	FullTime   *models.Score      `json:"full_time,omitempty"`
	HalfTime   *models.Score      `json:"half_time,omitempty"`
	StartsAt   time.Time          `json:"starts_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ResultResponse is returned after a result or cancellation is recorded.
// SettlementError is set when the result stuck but settlement did not run.
type ResultResponse struct {
	Event           *Response          `json:"event"`
	Changed         bool               `json:"changed"`
	Report          *settlement.Report `json:"report,omitempty"`
	SettlementError string             `json:"settlement_error,omitempty"`
}

// ToResponse converts a models.Event to Response
func ToResponse(e *models.Event) *Response {
	resp := &Response{
		ID:         e.ID,
		Name:       e.Name(),
		HomeTeam:   e.HomeTeam,
		AwayTeam:   e.AwayTeam,
		Status:     e.Status,
		StartsAt:   e.StartsAt,
		FinishedAt: e.FinishedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if ft, ok := e.FullTime(); ok {
		resp.FullTime = &ft
	}
	if ht, ok := e.HalfTime(); ok {
		resp.HalfTime = &ht
	}
	return resp
}
