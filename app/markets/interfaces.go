package markets

import (
	"github.com/joefazee/sportsbook/models"
)

// Extractor turns a wager into a normalized pick
type Extractor interface {
	Extract(w *models.Wager) (Pick, error)
	ExtractFromDescription(description string) (Pick, error)
}

// Evaluator decides a pick against a finished event
type Evaluator interface {
	Evaluate(pick Pick, event *models.Event) (Verdict, error)
}
