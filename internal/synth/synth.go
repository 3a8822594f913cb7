// Package synth generates labeled training sessions from the heuristic
// difficulty rules.
package synth

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/diffeval/internal/scoring"
	"github.com/abhisek/diffeval/internal/session"
)

const (
	// maxPercentage is the exclusive upper bound for random percentages.
	maxPercentage = 100
	// maxTimes is the exclusive upper bound for the "times" counters.
	maxTimes = 16
)

// Synthesizer draws synthetic sessions from an injected generator.
type Synthesizer struct {
	rng *rand.Rand
}

// New returns a Synthesizer drawing from rng.
func New(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// NewSeeded returns a Synthesizer with a PCG generator seeded by seed.
func NewSeeded(seed uint64) *Synthesizer {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// SeedFromTime returns a non-zero seed derived from the wall clock.
func SeedFromTime() uint64 {
	s := uint64(time.Now().UnixNano())
	if s == 0 {
		s = 1
	}
	return s
}

// Synthesize generates n labeled records.
func (s *Synthesizer) Synthesize(n int) ([]session.Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("synthesize: entry count must be positive, got %d", n)
	}
	records := make([]session.Record, n)
	for i := range records {
		rec := s.draw()
		rec.Evaluation = scoring.Evaluate(rec)
		records[i] = rec
	}
	return records, nil
}

// draw generates one unlabeled record conditioned on its success state and
// player type.
func (s *Synthesizer) draw() session.Record {
	success := s.rng.IntN(2)
	player := session.PlayerType(s.rng.IntN(2))

	rec := session.Record{
		SuccessState:  success,
		SessionLength: s.rng.Float64() * session.MaxSessionLength,
		PlayerType:    player,
	}

	won := success == 1
	cop := player == session.Cop

	switch {
	case won && cop, !won && !cop:
		rec.RobbersTagged = 100
	case won && !cop:
		rec.RobbersTagged = 0
	default:
		rec.RobbersTagged = float64(s.rng.IntN(maxPercentage))
	}

	if cop {
		rec.TimesSpedUp = s.rng.IntN(maxTimes)
	}

	switch {
	case won && !cop, !won && cop:
		rec.DiamondsCollected = 100
	default:
		rec.DiamondsCollected = float64(s.rng.IntN(maxPercentage))
	}

	if !cop {
		rec.TimesHidden = s.rng.IntN(maxTimes)
	}

	return rec
}
