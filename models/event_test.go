package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEvent(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		e := Event{}
		assert.Equal(t, "events", e.TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		e := Event{}
		assert.NoError(t, e.BeforeCreate(nil))
		assert.NotEqual(t, uuid.Nil, e.ID)

		existingID := uuid.New()
		e2 := Event{ID: existingID}
		assert.NoError(t, e2.BeforeCreate(nil))
		assert.Equal(t, existingID, e2.ID)
	})

	t.Run("Name", func(t *testing.T) {
		e := Event{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}
		assert.Equal(t, "Arsenal vs Chelsea", e.Name())
	})

	t.Run("Finish", func(t *testing.T) {
		e := Event{HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: EventStatusLive}
		at := time.Now()

		assert.NoError(t, e.Finish(Score{Home: 2, Away: 1}, at))
		assert.True(t, e.IsFinished())
		ft, ok := e.FullTime()
		assert.True(t, ok)
		assert.Equal(t, Score{Home: 2, Away: 1}, ft)
		assert.Equal(t, 3, ft.Total())
		assert.NotNil(t, e.FinishedAt)

		// same result again is accepted
		assert.NoError(t, e.Finish(Score{Home: 2, Away: 1}, at))
		assert.ErrorIs(t, e.Finish(Score{Home: 1, Away: 1}, at), ErrResultConflict)
		assert.ErrorIs(t, e.Finish(Score{Home: -1, Away: 1}, at), ErrInvalidScore)
	})

	t.Run("Finish cancelled event", func(t *testing.T) {
		e := Event{Status: EventStatusCancelled}
		assert.ErrorIs(t, e.Finish(Score{}, time.Now()), ErrEventAlreadyFinal)
	})

	t.Run("RecordHalfTime", func(t *testing.T) {
		e := Event{Status: EventStatusScheduled}
		assert.ErrorIs(t, e.RecordHalfTime(Score{Home: 1}), ErrHalfTimeNotAllowed)

		e.Status = EventStatusLive
		assert.NoError(t, e.RecordHalfTime(Score{Home: 1, Away: 0}))
		ht, ok := e.HalfTime()
		assert.True(t, ok)
		assert.Equal(t, Score{Home: 1, Away: 0}, ht)

		assert.ErrorIs(t, e.RecordHalfTime(Score{Home: -2}), ErrInvalidScore)
	})

	t.Run("Cancel", func(t *testing.T) {
		e := Event{Status: EventStatusScheduled}
		assert.NoError(t, e.Cancel())
		assert.True(t, e.IsCancelled())
		assert.True(t, e.IsFinal())
		assert.ErrorIs(t, e.Cancel(), ErrEventAlreadyFinal)

		live := Event{HomeTeam: "A", AwayTeam: "B", Status: EventStatusLive}
		assert.NoError(t, live.RecordHalfTime(Score{Home: 1, Away: 1}))
		assert.NoError(t, live.Cancel())
		_, hasHT := live.HalfTime()
		assert.False(t, hasHT)
		assert.NoError(t, live.Validate())
	})

	t.Run("Validate", func(t *testing.T) {
		two, one, neg := 2, 1, -1
		valid := func() Event {
			return Event{HomeTeam: "A", AwayTeam: "B", Status: EventStatusFinished, HomeGoals: &two, AwayGoals: &one}
		}
		e := valid()
		assert.NoError(t, e.Validate())

		tests := []struct {
			name   string
			modify func(*Event)
			err    error
		}{
			{"Missing team", func(e *Event) { e.HomeTeam = " " }, ErrInvalidTeamName},
			{"Bad status", func(e *Event) { e.Status = "postponed" }, ErrInvalidEventStatus},
			{"Finished without score", func(e *Event) { e.AwayGoals = nil }, ErrMissingFullTime},
			{"Score before finish", func(e *Event) { e.Status = EventStatusLive }, ErrScoreWithoutFinish},
			{"Negative goals", func(e *Event) { e.HomeGoals = &neg }, ErrInvalidScore},
			{"Half-time on scheduled", func(e *Event) {
				e.Status = EventStatusScheduled
				e.HomeGoals, e.AwayGoals = nil, nil
				e.HTHomeGoals = &one
			}, ErrHalfTimeNotAllowed},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				e := valid()
				tt.modify(&e)
				assert.Equal(t, tt.err, e.Validate())
			})
		}
	})
}
