package markets

import (
	"testing"

	"github.com/joefazee/sportsbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedEvent(home, away int) *models.Event {
	return &models.Event{
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		Status:    models.EventStatusFinished,
		HomeGoals: &home,
		AwayGoals: &away,
	}
}

func withHalfTime(e *models.Event, home, away int) *models.Event {
	e.HTHomeGoals = &home
	e.HTAwayGoals = &away
	return e
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		pick  Pick
		event *models.Event
		want  Outcome
	}{
		{"home win", Pick{Market: MatchResult, Selection: SelectionHome}, finishedEvent(2, 1), OutcomeWon},
		{"home loses on draw", Pick{Market: MatchResult, Selection: SelectionHome}, finishedEvent(1, 1), OutcomeLost},
		{"draw", Pick{Market: MatchResult, Selection: SelectionDraw}, finishedEvent(0, 0), OutcomeWon},
		{"away", Pick{Market: MatchResult, Selection: SelectionAway}, finishedEvent(0, 3), OutcomeWon},

		{"dc 1x on draw", Pick{Market: DoubleChance, Selection: SelectionHomeOrDraw}, finishedEvent(1, 1), OutcomeWon},
		{"dc 1x on away", Pick{Market: DoubleChance, Selection: SelectionHomeOrDraw}, finishedEvent(0, 1), OutcomeLost},
		{"dc x2 on away", Pick{Market: DoubleChance, Selection: SelectionDrawOrAway}, finishedEvent(1, 2), OutcomeWon},
		{"dc 12 on draw", Pick{Market: DoubleChance, Selection: SelectionHomeOrAway}, finishedEvent(2, 2), OutcomeLost},

		{"btts yes", Pick{Market: BothTeamsScore, Selection: SelectionYes}, finishedEvent(1, 1), OutcomeWon},
		{"btts yes clean sheet", Pick{Market: BothTeamsScore, Selection: SelectionYes}, finishedEvent(3, 0), OutcomeLost},
		{"btts no", Pick{Market: BothTeamsScore, Selection: SelectionNo}, finishedEvent(0, 0), OutcomeWon},

		{"over 2.5 on 3", Pick{Market: OverUnder, Selection: SelectionOver, Line: line("2.5")}, finishedEvent(2, 1), OutcomeWon},
		{"over 2.5 on 2", Pick{Market: OverUnder, Selection: SelectionOver, Line: line("2.5")}, finishedEvent(1, 1), OutcomeLost},
		{"under 1.5 on 1", Pick{Market: OverUnder, Selection: SelectionUnder, Line: line("1.5")}, finishedEvent(1, 0), OutcomeWon},
		{"under 3.5 on 4", Pick{Market: OverUnder, Selection: SelectionUnder, Line: line("3.5")}, finishedEvent(2, 2), OutcomeLost},

		{"correct score hit", Pick{Market: CorrectScore, Selection: "2-1"}, finishedEvent(2, 1), OutcomeWon},
		{"correct score reversed", Pick{Market: CorrectScore, Selection: "1-2"}, finishedEvent(2, 1), OutcomeLost},

		{"htft hd", Pick{Market: HalfFullTime, Selection: "hd"}, withHalfTime(finishedEvent(1, 1), 1, 0), OutcomeWon},
		{"htft da", Pick{Market: HalfFullTime, Selection: "da"}, withHalfTime(finishedEvent(1, 2), 0, 0), OutcomeWon},
		{"htft miss", Pick{Market: HalfFullTime, Selection: "hh"}, withHalfTime(finishedEvent(1, 2), 1, 0), OutcomeLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Evaluate(tt.pick, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Outcome, v.Reason)
			assert.NotEmpty(t, v.Reason)
		})
	}
}

func TestEvaluate_MissingData(t *testing.T) {
	t.Run("No full-time score voids", func(t *testing.T) {
		e := &models.Event{Status: models.EventStatusFinished}
		v, err := Evaluate(Pick{Market: MatchResult, Selection: SelectionHome}, e)
		require.NoError(t, err)
		assert.Equal(t, OutcomeVoid, v.Outcome)
	})

	t.Run("HT/FT without half-time voids", func(t *testing.T) {
		v, err := Evaluate(Pick{Market: HalfFullTime, Selection: "hh"}, finishedEvent(2, 0))
		require.NoError(t, err)
		assert.Equal(t, OutcomeVoid, v.Outcome)
		assert.Contains(t, v.Reason, "half-time")
	})

	t.Run("Other markets ignore missing half-time", func(t *testing.T) {
		v, err := Evaluate(Pick{Market: BothTeamsScore, Selection: SelectionNo}, finishedEvent(2, 0))
		require.NoError(t, err)
		assert.Equal(t, OutcomeWon, v.Outcome)
	})
}

func TestEvaluate_Invalid(t *testing.T) {
	event := withHalfTime(finishedEvent(1, 0), 0, 0)

	tests := []struct {
		name string
		pick Pick
	}{
		{"Unknown market", Pick{Market: "asian_handicap", Selection: "home"}},
		{"Over/under without line", Pick{Market: OverUnder, Selection: SelectionOver}},
		{"Over/under line not offered", Pick{Market: OverUnder, Selection: SelectionOver, Line: line("4.5")}},
		{"Over/under bad side", Pick{Market: OverUnder, Selection: "more", Line: line("2.5")}},
		{"Double chance single side", Pick{Market: DoubleChance, Selection: "home"}},
		{"Match result", Pick{Market: MatchResult, Selection: "banana"}},
		{"Match result synonym not normalized", Pick{Market: MatchResult, Selection: "1"}},
		{"Both teams score", Pick{Market: BothTeamsScore, Selection: "maybe"}},
		{"Correct score", Pick{Market: CorrectScore, Selection: "foo"}},
		{"Correct score not canonical", Pick{Market: CorrectScore, Selection: "1:0"}},
		{"HT/FT", Pick{Market: HalfFullTime, Selection: "zz"}},
		{"HT/FT not canonical", Pick{Market: HalfFullTime, Selection: "h/d"}},
		{"Empty selection", Pick{Market: MatchResult}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Evaluate(tt.pick, event)
			var me *MarketError
			require.ErrorAs(t, err, &me)
			assert.NotEqual(t, OutcomeLost, v.Outcome)
		})
	}

	t.Run("Checked before missing scores", func(t *testing.T) {
		_, err := Evaluate(Pick{Market: MatchResult, Selection: "banana"}, &models.Event{Status: models.EventStatusFinished})
		var me *MarketError
		assert.ErrorAs(t, err, &me)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "won", OutcomeWon.String())
	assert.Equal(t, "void", OutcomeVoid.String())
	assert.Equal(t, "unknown", Outcome(0).String())
	assert.Equal(t, models.SettlementTypeWin, OutcomeWon.SettlementType())
	assert.Equal(t, models.SettlementTypeLoss, OutcomeLost.SettlementType())
	assert.Equal(t, models.SettlementTypeRefund, OutcomeVoid.SettlementType())
	assert.IsType(t, evaluator{}, NewEvaluator())
}
