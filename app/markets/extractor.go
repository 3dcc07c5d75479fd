package markets

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/joefazee/sportsbook/internal/sanitizer"
	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
)

// ErrUnresolvedSelection is returned when neither the structured fields nor any
// legacy rule yields a pick. Callers must skip the wager, never settle it.
var ErrUnresolvedSelection = errors.New("selection could not be resolved")

// legacyRule recognises one market inside a free-text description. The tag
// locates the market; the fallback digs the selection out of the text that
// follows it when the plain "token before @" form is not present.
type legacyRule struct {
	market   Market
	tag      *regexp.Regexp
	fallback *regexp.Regexp
}

// Rule order matters: the first rule whose tag appears and whose selection
// normalizes wins.
var legacyRules = []legacyRule{
	{
		market:   MatchResult,
		tag:      regexp.MustCompile(`(?i)\[?\s*\b(?:match\s*result|1x2|full\s*time\s*result)\b\s*\]?`),
		fallback: regexp.MustCompile(`(?i)\b(home|draw|away)\b`),
	},
	{
		market:   OverUnder,
		tag:      regexp.MustCompile(`(?i)\[?\s*\b(?:over\s*/\s*under|o\s*/\s*u|total\s+goals)(?:\s*(\d(?:\.5)?))?\s*\]?`),
		fallback: regexp.MustCompile(`(?i)\b(over|under)\b(?:\s*(\d(?:\.5)?))?`),
	},
	{
		market:   BothTeamsScore,
		tag:      regexp.MustCompile(`(?i)\[?\s*\b(?:both\s+teams\s+(?:to\s+)?score|btts|gg\s*/\s*ng)\b\s*\]?`),
		fallback: regexp.MustCompile(`(?i)\b(yes|no|gg|ng)\b`),
	},
	{
		market:   CorrectScore,
		tag:      regexp.MustCompile(`(?i)\[?\s*\bcorrect\s+score\b\s*\]?`),
		fallback: regexp.MustCompile(`\b(\d{1,2}\s*[-:]\s*\d{1,2})\b`),
	},
	{
		market:   HalfFullTime,
		tag:      regexp.MustCompile(`(?i)\[?\s*(?:\bhalf[\s-]*time\s*/\s*full[\s-]*time\b|\bht\s*/\s*ft\b|\bhtft\b)(?:\s*result\b)?\s*\]?`),
		fallback: regexp.MustCompile(`(?i)\b((?:home|draw|away|[hdax12])\s*/\s*(?:home|draw|away|[hdax12]))\b`),
	},
	{
		market:   DoubleChance,
		tag:      regexp.MustCompile(`(?i)\[?\s*\bdouble\s+chance\b\s*\]?`),
		fallback: regexp.MustCompile(`(?i)\b(1x|x2|12|home\s*/\s*draw|draw\s*/\s*away|home\s*/\s*away)\b`),
	},
}

// "] HOME @" anywhere in the description
var bracketTokenPattern = regexp.MustCompile(`\]\s*([^\[\]@]+?)\s*@`)

// extractor implements the Extractor interface
type extractor struct {
	stripper    sanitizer.HTMLStripperer
	legacyRules bool
	maxDescLen  int
}

// NewExtractor creates a selection extractor. A nil stripper leaves
// descriptions as they are.
func NewExtractor(stripper sanitizer.HTMLStripperer, config *Config) Extractor {
	if config == nil {
		config = GetDefaultConfig()
	}
	return &extractor{
		stripper:    stripper,
		legacyRules: config.LegacyRulesEnabled,
		maxDescLen:  config.MaxDescriptionLength,
	}
}

// Extract resolves the pick of a single wager: structured market/selection
// fields first, the description only as a fallback.
func (x *extractor) Extract(w *models.Wager) (Pick, error) {
	if w.HasStructuredPick() {
		return Normalize(w.Market, w.Selection)
	}

	if strings.TrimSpace(w.Market) != "" {
		market, tagLine, err := ParseMarket(w.Market)
		if err != nil {
			return Pick{}, err
		}
		if !x.legacyRules {
			return Pick{}, x.unresolved(w.Description)
		}
		return x.extractForMarket(market, tagLine, x.clean(w.Description))
	}

	return x.ExtractFromDescription(w.Description)
}

// ExtractFromDescription applies the legacy rules in priority order
func (x *extractor) ExtractFromDescription(description string) (Pick, error) {
	if !x.legacyRules {
		return Pick{}, x.unresolved(description)
	}

	desc := x.clean(description)
	var firstErr error
	for i := range legacyRules {
		rule := &legacyRules[i]
		loc := rule.tag.FindStringSubmatchIndex(desc)
		if loc == nil {
			continue
		}

		tagLine, err := rule.tagLine(desc, loc)
		if err == nil {
			var pick Pick
			if pick, err = rule.resolve(desc[loc[1]:], tagLine); err == nil {
				return pick, nil
			}
		}
		// a tag can sit inside another market's name ("Half Time/Full Time
		// Result"), so a rule that cannot extract hands over to the next one
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return Pick{}, firstErr
	}
	return Pick{}, x.unresolved(description)
}

func (x *extractor) extractForMarket(market Market, tagLine decimal.Decimal, desc string) (Pick, error) {
	rule := ruleFor(market)
	if rule == nil {
		return Pick{}, &MarketError{Market: string(market), Reason: "no legacy rule"}
	}

	rest := desc
	if loc := rule.tag.FindStringSubmatchIndex(desc); loc != nil {
		line, err := rule.tagLine(desc, loc)
		if err != nil {
			return Pick{}, err
		}
		if tagLine.IsZero() {
			tagLine = line
		}
		rest = desc[loc[1]:]
	} else if m := bracketTokenPattern.FindStringSubmatch(desc); m != nil {
		return NormalizeSelection(market, tagLine, m[1])
	}

	return rule.resolve(rest, tagLine)
}

func (x *extractor) clean(s string) string {
	if x.maxDescLen > 0 && len(s) > x.maxDescLen {
		s = s[:x.maxDescLen]
	}
	if x.stripper != nil {
		return x.stripper.Clean(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

func (x *extractor) unresolved(description string) error {
	desc := description
	if len(desc) > 80 {
		desc = desc[:80] + "..."
	}
	return fmt.Errorf("%w: %q", ErrUnresolvedSelection, desc)
}

func ruleFor(market Market) *legacyRule {
	for i := range legacyRules {
		if legacyRules[i].market == market {
			return &legacyRules[i]
		}
	}
	return nil
}

func (r *legacyRule) tagLine(desc string, loc []int) (decimal.Decimal, error) {
	if r.market != OverUnder || len(loc) < 4 || loc[2] < 0 {
		return decimal.Zero, nil
	}
	line, err := lineFromDigit(desc[loc[2]:loc[3]])
	if err != nil {
		return decimal.Zero, &MarketError{Market: string(OverUnder), Selection: desc[loc[0]:loc[1]], Reason: err.Error()}
	}
	return line, nil
}

// resolve reads the selection from the text after the tag. When a "token @odds"
// is present only that token counts; the fallback pattern is for descriptions
// without odds and must match a whole word, so "HOME" is never read out of
// "HOME/DRAW".
func (r *legacyRule) resolve(rest string, tagLine decimal.Decimal) (Pick, error) {
	rest = strings.TrimLeft(rest, " :-]")

	if token, _, found := strings.Cut(rest, "@"); found {
		if i := strings.LastIndex(token, "]"); i >= 0 {
			token = token[i+1:]
		}
		return NormalizeSelection(r.market, tagLine, strings.TrimSpace(token))
	}

	for _, m := range r.fallback.FindAllStringSubmatchIndex(rest, -1) {
		if !standalone(rest, m[0], m[1]) {
			continue
		}
		raw := rest[m[2]:m[3]]
		if r.market == OverUnder && len(m) > 5 && m[4] >= 0 {
			raw += " " + rest[m[4]:m[5]]
		}
		return NormalizeSelection(r.market, tagLine, raw)
	}

	return Pick{}, &MarketError{Market: string(r.market), Selection: strings.TrimSpace(rest), Reason: "no selection found"}
}

// standalone reports whether s[start:end] is not glued to a neighbouring
// selection by a separator
func standalone(s string, start, end int) bool {
	const joiners = "/-_\\|"
	if start > 0 && strings.IndexByte(joiners, s[start-1]) >= 0 {
		return false
	}
	if end < len(s) && strings.IndexByte(joiners, s[end]) >= 0 {
		return false
	}
	return true
}
