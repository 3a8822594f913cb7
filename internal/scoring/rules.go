package scoring

import "github.com/abhisek/diffeval/internal/session"

// Rule scores one feature column against a pair of inclusive thresholds.
// A value at or below Low contributes LowSign, a value at or above High
// contributes -LowSign, and anything strictly between contributes 0.
type Rule struct {
	Column  string
	Low     float64
	High    float64
	LowSign int
}

// Contribution returns the rule's score for v.
func (r Rule) Contribution(v float64) int {
	switch {
	case v <= r.Low:
		return r.LowSign
	case v >= r.High:
		return -r.LowSign
	default:
		return 0
	}
}

// Flipped returns the rule with its polarity reversed.
func (r Rule) Flipped() Rule {
	r.LowSign = -r.LowSign
	return r
}

// CommonRules apply to every session regardless of role.
// A failed session (0) pushes toward Easier, a successful one toward Harder.
var CommonRules = []Rule{
	{Column: session.ColSuccessState, Low: 0, High: 1, LowSign: +1},
	{Column: session.ColSessionLength, Low: 60, High: 90, LowSign: -1},
}

// CopRules apply to Player Type 0.
var CopRules = []Rule{
	{Column: session.ColRobbersTagged, Low: 40, High: 60, LowSign: +1},
	{Column: session.ColTimesSpedUp, Low: 5, High: 10, LowSign: -1},
	{Column: session.ColDiamondsCollected, Low: 40, High: 60, LowSign: -1},
	{Column: session.ColTimesHidden, Low: 5, High: 10, LowSign: +1},
}

// RobberRules mirror CopRules: same thresholds, opposite polarity.
var RobberRules = flipAll(CopRules)

func flipAll(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r.Flipped()
	}
	return out
}

// RulesFor returns the full rule table applied to a player type.
// Unknown player types are scored on the common rules only.
func RulesFor(p session.PlayerType) []Rule {
	rules := append([]Rule(nil), CommonRules...)
	switch p {
	case session.Cop:
		rules = append(rules, CopRules...)
	case session.Robber:
		rules = append(rules, RobberRules...)
	}
	return rules
}
