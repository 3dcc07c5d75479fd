package settlement

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/markets"
	"github.com/joefazee/sportsbook/models"
)

// LegResult is the evaluated state of one parlay leg
type LegResult struct {
	SelectionID uuid.UUID
	EventID     uuid.UUID
	Final       bool
	Verdict     markets.Verdict
	Err         error
}

// ParlayDecision is the aggregate of all legs. Pending leaves the wager untouched.
type ParlayDecision struct {
	Pending bool
	// Blocked is set when a leg could not be evaluated and needs manual review
	Blocked bool
	Outcome markets.Outcome
	Trace   string
}

// AggregateParlay folds leg results into one decision. A parlay is only
// decided once every leg event is final. A lost leg loses the parlay, all won
// legs win it, and anything else (no loss, at least one void) refunds it.
func AggregateParlay(legs []LegResult) ParlayDecision {
	if len(legs) == 0 {
		return ParlayDecision{Pending: true, Blocked: true, Trace: "parlay has no legs"}
	}

	for i := range legs {
		if !legs[i].Final {
			return ParlayDecision{Pending: true, Trace: fmt.Sprintf("leg %d: event %s not final", i+1, legs[i].EventID)}
		}
	}
	for i := range legs {
		if legs[i].Err != nil {
			return ParlayDecision{Pending: true, Blocked: true, Trace: fmt.Sprintf("leg %d: %v", i+1, legs[i].Err)}
		}
	}

	var (
		lost, void int
		parts      = make([]string, 0, len(legs))
	)
	for i := range legs {
		v := legs[i].Verdict
		parts = append(parts, fmt.Sprintf("leg %d %s (%s)", i+1, v.Outcome, v.Reason))
		switch v.Outcome {
		case markets.OutcomeLost:
			lost++
		case markets.OutcomeVoid:
			void++
		}
	}

	decision := ParlayDecision{Trace: strings.Join(parts, "; ")}
	switch {
	case lost > 0:
		decision.Outcome = markets.OutcomeLost
	case void > 0:
		decision.Outcome = markets.OutcomeVoid
	default:
		decision.Outcome = markets.OutcomeWon
	}
	return decision
}

// evaluateLeg resolves one leg against its event. Cancelled events void the leg.
func evaluateLeg(sel *models.Selection, event *models.Event, evaluator markets.Evaluator) LegResult {
	leg := LegResult{SelectionID: sel.ID, EventID: sel.EventID}
	if event == nil {
		return leg
	}

	leg.Final = event.IsFinal()
	if !leg.Final {
		return leg
	}
	if event.IsCancelled() {
		leg.Verdict = markets.Verdict{Outcome: markets.OutcomeVoid, Reason: "event cancelled"}
		return leg
	}

	pick, err := markets.Normalize(sel.Market, sel.Selection)
	if err != nil {
		leg.Err = err
		return leg
	}
	leg.Verdict, leg.Err = evaluator.Evaluate(pick, event)
	return leg
}
