package compound

import (
	"fmt"
	"regexp"
)

// Action tells the lexer what to do with text matched by a Rule.
type Action int

const (
	Emit Action = iota // produce a token
	Skip               // discard silently
)

// Rule is a single lexical rule.
type Rule struct {
	Pattern *regexp.Regexp
	Action  Action
}

// RuleTable is an ordered, append-only set of rules. Registration order
// decides ties between rules that match the same length.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable returns an empty table.
func NewRuleTable() *RuleTable {
	return &RuleTable{}
}

// Add registers a rule. The pattern is anchored at the start of the input.
func (t *RuleTable) Add(pattern string, action Action) error {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}
	t.rules = append(t.rules, Rule{Pattern: re, Action: action})
	return nil
}

// MustAdd is like Add but panics on an invalid pattern.
func (t *RuleTable) MustAdd(pattern string, action Action) {
	if err := t.Add(pattern, action); err != nil {
		panic(err)
	}
}

// Len returns the number of registered rules.
func (t *RuleTable) Len() int { return len(t.rules) }

// LongestMatch returns the rule with the longest non-empty match at the start
// of input. When several rules match the same length the earliest registered
// one wins.
func (t *RuleTable) LongestMatch(input string) (Rule, string, bool) {
	var (
		winner  Rule
		matched string
		found   bool
	)
	for _, r := range t.rules {
		m := r.Pattern.FindString(input)
		if m == "" {
			continue
		}
		// Strictly longer only: an equal-length later rule must not displace an earlier one.
		if !found || len(m) > len(matched) {
			winner, matched, found = r, m, true
		}
	}
	return winner, matched, found
}

// Lexical rules of the compound language, in registration order.
const (
	patternReference   = `\b(grains|salt|pillar)\[[^\]]+\]`
	patternBare        = `[A-Za-z0-9]+`
	patternPunctuation = `[()'"]`
	patternOperator    = `>=?|<=?|and|or|==|=~`
	patternWhitespace  = `\s+`
)

// DefaultRules builds a fresh table holding the compound language rules.
func DefaultRules() *RuleTable {
	t := NewRuleTable()
	t.MustAdd(patternReference, Emit)
	t.MustAdd(patternBare, Emit)
	t.MustAdd(patternPunctuation, Emit)
	t.MustAdd(patternOperator, Emit)
	t.MustAdd(patternWhitespace, Skip)
	return t
}
