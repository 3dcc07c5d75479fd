package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventStatus represents the lifecycle state of a sporting event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusLive      EventStatus = "live"
	EventStatusFinished  EventStatus = "finished"
	EventStatusCancelled EventStatus = "cancelled"
)

// IsValid reports whether the status is one of the known event states
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusScheduled, EventStatusLive, EventStatusFinished, EventStatusCancelled:
		return true
	}
	return false
}

// Score is a home/away goal pair
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total returns the combined number of goals
func (s Score) Total() int {
	return s.Home + s.Away
}

// Valid reports whether both sides are non-negative
func (s Score) Valid() bool {
	return s.Home >= 0 && s.Away >= 0
}

// Event represents a sporting fixture whose result drives settlement
type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	HomeTeam    string      `gorm:"type:varchar(120);not null" json:"home_team"`
	AwayTeam    string      `gorm:"type:varchar(120);not null" json:"away_team"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	HomeGoals   *int        `gorm:"check:home_goals >= 0" json:"home_goals"`
	AwayGoals   *int        `gorm:"check:away_goals >= 0" json:"away_goals"`
	HTHomeGoals *int        `gorm:"column:ht_home_goals;check:ht_home_goals >= 0" json:"ht_home_goals"`
	HTAwayGoals *int        `gorm:"column:ht_away_goals;check:ht_away_goals >= 0" json:"ht_away_goals"`
	StartsAt    time.Time   `gorm:"type:timestamptz;not null" json:"starts_at"`
	FinishedAt  *time.Time  `gorm:"type:timestamptz" json:"finished_at"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Event model
func (*Event) TableName() string {
	return "events"
}

// BeforeCreate sets up the model before creation
func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Name returns the conventional "Home vs Away" label
func (e *Event) Name() string {
	return e.HomeTeam + " vs " + e.AwayTeam
}

// IsFinished checks if the event has a final result
func (e *Event) IsFinished() bool {
	return e.Status == EventStatusFinished
}

// IsCancelled checks if the event was called off
func (e *Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

// IsFinal reports whether the event will never change state again
func (e *Event) IsFinal() bool {
	return e.IsFinished() || e.IsCancelled()
}

// FullTime returns the full-time score when both sides are recorded
func (e *Event) FullTime() (Score, bool) {
	if e.HomeGoals == nil || e.AwayGoals == nil {
		return Score{}, false
	}
	return Score{Home: *e.HomeGoals, Away: *e.AwayGoals}, true
}

// HalfTime returns the half-time score when both sides are recorded
func (e *Event) HalfTime() (Score, bool) {
	if e.HTHomeGoals == nil || e.HTAwayGoals == nil {
		return Score{}, false
	}
	return Score{Home: *e.HTHomeGoals, Away: *e.HTAwayGoals}, true
}

// RecordHalfTime stores the half-time score. Allowed while live or finished.
func (e *Event) RecordHalfTime(ht Score) error {
	if !ht.Valid() {
		return ErrInvalidScore
	}
	if e.Status != EventStatusLive && e.Status != EventStatusFinished {
		return ErrHalfTimeNotAllowed
	}
	e.HTHomeGoals = intPtr(ht.Home)
	e.HTAwayGoals = intPtr(ht.Away)
	return nil
}

// Finish moves the event to finished with the given full-time score.
// Re-finishing with the same score is a no-op; a different score is a conflict.
func (e *Event) Finish(ft Score, at time.Time) error {
	if !ft.Valid() {
		return ErrInvalidScore
	}
	if e.IsCancelled() {
		return ErrEventAlreadyFinal
	}
	if e.IsFinished() {
		if current, ok := e.FullTime(); ok && current == ft {
			return nil
		}
		return ErrResultConflict
	}

	e.Status = EventStatusFinished
	e.HomeGoals = intPtr(ft.Home)
	e.AwayGoals = intPtr(ft.Away)
	e.FinishedAt = &at
	return nil
}

// Cancel calls the event off. Only scheduled or live events can be cancelled;
// a half-time score recorded while live is dropped.
func (e *Event) Cancel() error {
	if e.IsFinal() {
		return ErrEventAlreadyFinal
	}
	e.Status = EventStatusCancelled
	e.HTHomeGoals = nil
	e.HTAwayGoals = nil
	return nil
}

// Validate performs validation on the event model
func (e *Event) Validate() error {
	if strings.TrimSpace(e.HomeTeam) == "" || strings.TrimSpace(e.AwayTeam) == "" {
		return ErrInvalidTeamName
	}
	if !e.Status.IsValid() {
		return ErrInvalidEventStatus
	}

	_, hasFT := e.FullTime()
	if e.IsFinished() && !hasFT {
		return ErrMissingFullTime
	}
	if !e.IsFinished() && (e.HomeGoals != nil || e.AwayGoals != nil) {
		return ErrScoreWithoutFinish
	}

	for _, g := range []*int{e.HomeGoals, e.AwayGoals, e.HTHomeGoals, e.HTAwayGoals} {
		if g != nil && *g < 0 {
			return ErrInvalidScore
		}
	}

	if (e.HTHomeGoals != nil || e.HTAwayGoals != nil) &&
		e.Status != EventStatusLive && e.Status != EventStatusFinished {
		return ErrHalfTimeNotAllowed
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
