package markets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Market is the canonical tag of a supported football market
type Market string

const (
	MatchResult    Market = "match_result"
	DoubleChance   Market = "double_chance"
	BothTeamsScore Market = "both_teams_score"
	OverUnder      Market = "over_under"
	CorrectScore   Market = "correct_score"
	HalfFullTime   Market = "half_full_time"
)

// Canonical selections
const (
	SelectionHome       = "home"
	SelectionDraw       = "draw"
	SelectionAway       = "away"
	SelectionHomeOrDraw = "home_or_draw"
	SelectionDrawOrAway = "draw_or_away"
	SelectionHomeOrAway = "home_or_away"
	SelectionYes        = "yes"
	SelectionNo         = "no"
	SelectionOver       = "over"
	SelectionUnder      = "under"
)

// SupportedMarkets lists every market in evaluation-rule order
var SupportedMarkets = []Market{MatchResult, DoubleChance, BothTeamsScore, OverUnder, CorrectScore, HalfFullTime}

// SupportedLines are the only goal lines offered on over/under
var SupportedLines = []decimal.Decimal{
	decimal.RequireFromString("1.5"),
	decimal.RequireFromString("2.5"),
	decimal.RequireFromString("3.5"),
}

// RequiresHalfTime reports whether settling the market needs the half-time score
func (m Market) RequiresHalfTime() bool {
	return m == HalfFullTime
}

// Pick is a normalized (market, selection) pair. Line is only set for over/under.
type Pick struct {
	Market    Market          `json:"market"`
	Selection string          `json:"selection"`
	Line      decimal.Decimal `json:"line,omitempty"`
}

func (p Pick) String() string {
	if p.Market == OverUnder {
		return fmt.Sprintf("%s:%s %s", p.Market, p.Selection, p.Line.StringFixed(1))
	}
	return fmt.Sprintf("%s:%s", p.Market, p.Selection)
}

// MarketError means the market tag or selection is outside the grammar.
// Wagers hitting it stay open for manual review; it never counts as a loss.
type MarketError struct {
	Market    string
	Selection string
	Reason    string
}

func (e *MarketError) Error() string {
	if e.Selection == "" {
		return fmt.Sprintf("market %q: %s", e.Market, e.Reason)
	}
	return fmt.Sprintf("market %q selection %q: %s", e.Market, e.Selection, e.Reason)
}

var marketTags = map[string]Market{
	"match_result":          MatchResult,
	"match result":          MatchResult,
	"1x2":                   MatchResult,
	"mr":                    MatchResult,
	"full time result":      MatchResult,
	"double_chance":         DoubleChance,
	"double chance":         DoubleChance,
	"dc":                    DoubleChance,
	"both_teams_score":      BothTeamsScore,
	"both teams to score":   BothTeamsScore,
	"both teams score":      BothTeamsScore,
	"btts":                  BothTeamsScore,
	"gg":                    BothTeamsScore,
	"gg/ng":                 BothTeamsScore,
	"over_under":            OverUnder,
	"over/under":            OverUnder,
	"over under":            OverUnder,
	"o/u":                   OverUnder,
	"ou":                    OverUnder,
	"correct_score":         CorrectScore,
	"correct score":         CorrectScore,
	"cs":                    CorrectScore,
	"half_full_time":        HalfFullTime,
	"half time/full time":   HalfFullTime,
	"halftime/fulltime":     HalfFullTime,
	"half-time/full-time":   HalfFullTime,
	"ht/ft":                 HalfFullTime,
	"htft":                  HalfFullTime,
	"half time full time":   HalfFullTime,
	"half_time_full_time":   HalfFullTime,
	"half-time/full time":   HalfFullTime,
	"half time / full time": HalfFullTime,
}

// ou1, ou15, ou2.5, over_under_3.5, o/u 2.5 ...
var lineTagPattern = regexp.MustCompile(`^(?:ou|o/u|over/under|over_under|over under)[\s_]*(\d)(?:\.?5)?$`)

var (
	overUnderPattern    = regexp.MustCompile(`^(?:(over|under)|([ou]))\s*(\d(?:\.5)?)?(?:\s*goals)?$`)
	correctScorePattern = regexp.MustCompile(`^(\d{1,2})\s*[-:]\s*(\d{1,2})$`)
	separatorPattern    = regexp.MustCompile(`[\s/\-]+`)
)

var matchResultSelections = map[string]string{
	"home": SelectionHome, "1": SelectionHome,
	"draw": SelectionDraw, "x": SelectionDraw,
	"away": SelectionAway, "2": SelectionAway,
}

var doubleChanceSelections = map[string]string{
	"1x": SelectionHomeOrDraw, "x1": SelectionHomeOrDraw, "home/draw": SelectionHomeOrDraw,
	"draw/home": SelectionHomeOrDraw, SelectionHomeOrDraw: SelectionHomeOrDraw,
	"x2": SelectionDrawOrAway, "2x": SelectionDrawOrAway, "draw/away": SelectionDrawOrAway,
	"away/draw": SelectionDrawOrAway, SelectionDrawOrAway: SelectionDrawOrAway,
	"12": SelectionHomeOrAway, "21": SelectionHomeOrAway, "home/away": SelectionHomeOrAway,
	"away/home": SelectionHomeOrAway, SelectionHomeOrAway: SelectionHomeOrAway,
}

var bothTeamsScoreSelections = map[string]string{
	"yes": SelectionYes, "gg": SelectionYes,
	"no": SelectionNo, "ng": SelectionNo,
}

var halfFullTimeSides = map[string]string{
	"h": "h", "home": "h", "1": "h",
	"d": "d", "draw": "d", "x": "d",
	"a": "a", "away": "a", "2": "a",
}

func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ParseMarket resolves a market tag or one of its legacy synonyms. The returned
// line is non-zero only when the tag itself carries an over/under line.
func ParseMarket(tag string) (Market, decimal.Decimal, error) {
	key := normalizeToken(tag)
	if m, ok := marketTags[key]; ok {
		return m, decimal.Zero, nil
	}

	if m := lineTagPattern.FindStringSubmatch(key); m != nil {
		line, err := lineFromDigit(m[1])
		if err != nil {
			return "", decimal.Zero, &MarketError{Market: tag, Reason: err.Error()}
		}
		return OverUnder, line, nil
	}

	return "", decimal.Zero, &MarketError{Market: tag, Reason: "unknown market"}
}

// Normalize maps a raw (tag, selection) pair onto the canonical grammar
func Normalize(tag, selection string) (Pick, error) {
	market, line, err := ParseMarket(tag)
	if err != nil {
		return Pick{}, err
	}
	return NormalizeSelection(market, line, selection)
}

// NormalizeSelection validates a raw selection against a known market.
// tagLine is the over/under line implied by the market tag, or zero.
func NormalizeSelection(market Market, tagLine decimal.Decimal, raw string) (Pick, error) {
	token := normalizeToken(raw)
	fail := func(reason string) (Pick, error) {
		return Pick{}, &MarketError{Market: string(market), Selection: raw, Reason: reason}
	}
	if token == "" {
		return fail("empty selection")
	}

	switch market {
	case MatchResult:
		if sel, ok := matchResultSelections[token]; ok {
			return Pick{Market: market, Selection: sel}, nil
		}
	case DoubleChance:
		key := strings.ReplaceAll(strings.ReplaceAll(token, " or ", "/"), " ", "")
		if sel, ok := doubleChanceSelections[key]; ok {
			return Pick{Market: market, Selection: sel}, nil
		}
	case BothTeamsScore:
		if sel, ok := bothTeamsScoreSelections[token]; ok {
			return Pick{Market: market, Selection: sel}, nil
		}
	case OverUnder:
		return normalizeOverUnder(tagLine, raw, token)
	case CorrectScore:
		if m := correctScorePattern.FindStringSubmatch(token); m != nil {
			home, _ := strconv.Atoi(m[1])
			away, _ := strconv.Atoi(m[2])
			return Pick{Market: market, Selection: fmt.Sprintf("%d-%d", home, away)}, nil
		}
	case HalfFullTime:
		if sel, ok := normalizeHalfFullTime(token); ok {
			return Pick{Market: market, Selection: sel}, nil
		}
	default:
		return fail("unknown market")
	}

	return fail("selection not offered on this market")
}

func normalizeOverUnder(tagLine decimal.Decimal, raw, token string) (Pick, error) {
	fail := func(reason string) (Pick, error) {
		return Pick{}, &MarketError{Market: string(OverUnder), Selection: raw, Reason: reason}
	}

	m := overUnderPattern.FindStringSubmatch(token)
	if m == nil {
		return fail("selection not offered on this market")
	}
	// single-letter sides are only accepted with an explicit line ("o2.5")
	if m[2] != "" && m[3] == "" {
		return fail("selection not offered on this market")
	}

	side := SelectionOver
	if m[1] == SelectionUnder || m[2] == "u" {
		side = SelectionUnder
	}

	line := tagLine
	if m[3] != "" {
		selLine, err := lineFromDigit(m[3])
		if err != nil {
			return fail(err.Error())
		}
		if !tagLine.IsZero() && !tagLine.Equal(selLine) {
			return fail("selection line does not match market line")
		}
		line = selLine
	}
	if line.IsZero() {
		return fail("missing over/under line")
	}

	return Pick{Market: OverUnder, Selection: side, Line: line}, nil
}

// lineFromDigit accepts "2" or "2.5" and returns 2.5 when it is an offered line
func lineFromDigit(s string) (decimal.Decimal, error) {
	whole := strings.TrimSuffix(s, ".5")
	n, err := strconv.Atoi(whole)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid line %q", s)
	}
	line := decimal.NewFromInt(int64(n)).Add(decimal.RequireFromString("0.5"))
	for _, l := range SupportedLines {
		if l.Equal(line) {
			return l, nil
		}
	}
	return decimal.Zero, fmt.Errorf("line %s is not offered", line.StringFixed(1))
}

func normalizeHalfFullTime(token string) (string, bool) {
	parts := separatorPattern.Split(strings.TrimSpace(token), -1)
	if len(parts) == 1 && len(parts[0]) == 2 {
		parts = []string{parts[0][:1], parts[0][1:]}
	}
	if len(parts) != 2 {
		return "", false
	}

	ht, ok := halfFullTimeSides[parts[0]]
	if !ok {
		return "", false
	}
	ft, ok := halfFullTimeSides[parts[1]]
	if !ok {
		return "", false
	}
	return ht + ft, true
}
