package scoring

import "github.com/abhisek/diffeval/internal/session"

// Term is the contribution of a single rule to a record's score.
type Term struct {
	Rule  Rule
	Value float64
	Score int
}

// Breakdown lists every rule applied to rec with its contribution.
func Breakdown(rec session.Record) []Term {
	rules := RulesFor(rec.PlayerType)
	terms := make([]Term, 0, len(rules))
	for _, r := range rules {
		v, _ := rec.Value(r.Column)
		terms = append(terms, Term{Rule: r, Value: v, Score: r.Contribution(v)})
	}
	return terms
}

// Score returns the additive rule score of rec.
func Score(rec session.Record) int {
	total := 0
	for _, t := range Breakdown(rec) {
		total += t.Score
	}
	return total
}

// LabelFor maps a total score to a label.
func LabelFor(score int) session.Label {
	switch {
	case score > 0:
		return session.LabelEasier
	case score < 0:
		return session.LabelHarder
	default:
		return session.LabelSame
	}
}

// Evaluate labels a record from its features. The existing Evaluation
// field is ignored.
func Evaluate(rec session.Record) session.Label {
	return LabelFor(Score(rec))
}

// Mirror swaps the player type and reflects the four role-dependent
// features so that the mirrored thresholds see the same situation:
// percentages map to 100-v and counts (drawn from [0,15]) to 15-v.
// Score(Mirror(r)) == Score(r) for every in-domain record.
func Mirror(rec session.Record) session.Record {
	out := rec
	switch rec.PlayerType {
	case session.Cop:
		out.PlayerType = session.Robber
	case session.Robber:
		out.PlayerType = session.Cop
	}
	out.RobbersTagged = 100 - rec.RobbersTagged
	out.DiamondsCollected = 100 - rec.DiamondsCollected
	out.TimesSpedUp = maxCount - rec.TimesSpedUp
	out.TimesHidden = maxCount - rec.TimesHidden
	return out
}

// maxCount is the largest synthesized value of the two "times" columns.
const maxCount = 15
