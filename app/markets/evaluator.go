package markets

import (
	"fmt"
	"regexp"

	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
)

// Outcome is the result of evaluating a pick against a finished event
type Outcome int

const (
	OutcomeWon Outcome = iota + 1
	OutcomeLost
	OutcomeVoid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	case OutcomeVoid:
		return "void"
	default:
		return "unknown"
	}
}

// SettlementType maps an outcome onto the money movement it causes
func (o Outcome) SettlementType() models.SettlementType {
	switch o {
	case OutcomeWon:
		return models.SettlementTypeWin
	case OutcomeLost:
		return models.SettlementTypeLoss
	default:
		return models.SettlementTypeRefund
	}
}

// Verdict carries the outcome plus a human-readable reason for the trace
type Verdict struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason"`
}

// evaluator implements the Evaluator interface
type evaluator struct{}

// NewEvaluator creates a new outcome evaluator
func NewEvaluator() Evaluator {
	return evaluator{}
}

func (evaluator) Evaluate(pick Pick, event *models.Event) (Verdict, error) {
	return Evaluate(pick, event)
}

// Evaluate decides a pick against the recorded scores of an event. Missing
// data the market depends on voids the pick; it never loses it. A pick that is
// not in canonical form is a *MarketError whatever the score.
func Evaluate(pick Pick, event *models.Event) (Verdict, error) {
	if !canonical(pick) {
		return Verdict{}, invalidPick(pick)
	}

	ft, ok := event.FullTime()
	if !ok {
		return Verdict{Outcome: OutcomeVoid, Reason: "full-time score missing"}, nil
	}

	switch pick.Market {
	case MatchResult:
		actual := resultOf(ft)
		return decide(pick.Selection == actual, "result %s, picked %s", actual, pick.Selection), nil

	case DoubleChance:
		actual := resultOf(ft)
		return decide(doubleChanceCover[pick.Selection][actual], "result %s, picked %s", actual, pick.Selection), nil

	case BothTeamsScore:
		both := ft.Home > 0 && ft.Away > 0
		actual := SelectionNo
		if both {
			actual = SelectionYes
		}
		return decide(pick.Selection == actual, "both scored: %s, picked %s", actual, pick.Selection), nil

	case OverUnder:
		total := decimal.NewFromInt(int64(ft.Total()))
		won := total.GreaterThan(pick.Line)
		if pick.Selection == SelectionUnder {
			won = total.LessThan(pick.Line)
		}
		return decide(won, "total goals %d, picked %s %s", ft.Total(), pick.Selection, pick.Line.StringFixed(1)), nil

	case CorrectScore:
		actual := fmt.Sprintf("%d-%d", ft.Home, ft.Away)
		return decide(pick.Selection == actual, "score %s, picked %s", actual, pick.Selection), nil

	case HalfFullTime:
		ht, ok := event.HalfTime()
		if !ok {
			return Verdict{Outcome: OutcomeVoid, Reason: "half-time score missing"}, nil
		}
		actual := sideLetter(ht) + sideLetter(ft)
		return decide(pick.Selection == actual, "ht/ft %s, picked %s", actual, pick.Selection), nil
	}

	return Verdict{}, invalidPick(pick)
}

var (
	canonicalScore = regexp.MustCompile(`^(0|[1-9]\d?)-(0|[1-9]\d?)$`)
	canonicalHTFT  = regexp.MustCompile(`^[hda]{2}$`)
)

// canonical reports whether a pick is in the form Normalize produces
func canonical(p Pick) bool {
	switch p.Market {
	case MatchResult:
		return p.Selection == SelectionHome || p.Selection == SelectionDraw || p.Selection == SelectionAway
	case DoubleChance:
		_, ok := doubleChanceCover[p.Selection]
		return ok
	case BothTeamsScore:
		return p.Selection == SelectionYes || p.Selection == SelectionNo
	case OverUnder:
		if p.Selection != SelectionOver && p.Selection != SelectionUnder {
			return false
		}
		for _, l := range SupportedLines {
			if l.Equal(p.Line) {
				return true
			}
		}
		return false
	case CorrectScore:
		return canonicalScore.MatchString(p.Selection)
	case HalfFullTime:
		return canonicalHTFT.MatchString(p.Selection)
	}
	return false
}

var doubleChanceCover = map[string]map[string]bool{
	SelectionHomeOrDraw: {SelectionHome: true, SelectionDraw: true},
	SelectionDrawOrAway: {SelectionDraw: true, SelectionAway: true},
	SelectionHomeOrAway: {SelectionHome: true, SelectionAway: true},
}

func resultOf(s models.Score) string {
	switch {
	case s.Home > s.Away:
		return SelectionHome
	case s.Home < s.Away:
		return SelectionAway
	default:
		return SelectionDraw
	}
}

func sideLetter(s models.Score) string {
	return resultOf(s)[:1]
}

func decide(won bool, format string, args ...interface{}) Verdict {
	v := Verdict{Outcome: OutcomeLost, Reason: fmt.Sprintf(format, args...)}
	if won {
		v.Outcome = OutcomeWon
	}
	return v
}

func invalidPick(p Pick) error {
	return &MarketError{Market: string(p.Market), Selection: p.Selection, Reason: "cannot evaluate selection"}
}
