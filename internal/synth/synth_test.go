package synth

import (
	"testing"

	"github.com/abhisek/diffeval/internal/scoring"
	"github.com/abhisek/diffeval/internal/session"
)

func TestSynthesize_Reproducible(t *testing.T) {
	a, err := NewSeeded(99).Synthesize(200)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	b, err := NewSeeded(99).Synthesize(200)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c, err := NewSeeded(100).Synthesize(200)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	same := 0
	for i := range a {
		if a[i] == c[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("different seeds produced identical datasets")
	}
}

func TestSynthesize_GenerationRules(t *testing.T) {
	records, err := NewSeeded(1).Synthesize(2000)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(records) != 2000 {
		t.Fatalf("got %d records, want 2000", len(records))
	}

	var cops, robbers int
	for i, r := range records {
		if err := r.Validate(); err != nil {
			t.Fatalf("record %d out of range: %v", i, err)
		}
		if r.SessionLength >= session.MaxSessionLength {
			t.Errorf("record %d: session length %g not below %d", i, r.SessionLength, session.MaxSessionLength)
		}

		won := r.SuccessState == 1
		cop := r.PlayerType == session.Cop
		switch {
		case won && cop, !won && !cop:
			if r.RobbersTagged != 100 {
				t.Errorf("record %d: robbers tagged = %g, want 100", i, r.RobbersTagged)
			}
		case won && !cop:
			if r.RobbersTagged != 0 {
				t.Errorf("record %d: robbers tagged = %g, want 0", i, r.RobbersTagged)
			}
		default:
			if r.RobbersTagged >= 100 {
				t.Errorf("record %d: random robbers tagged = %g, want < 100", i, r.RobbersTagged)
			}
		}
		switch {
		case won && !cop, !won && cop:
			if r.DiamondsCollected != 100 {
				t.Errorf("record %d: diamonds = %g, want 100", i, r.DiamondsCollected)
			}
		default:
			if r.DiamondsCollected >= 100 {
				t.Errorf("record %d: random diamonds = %g, want < 100", i, r.DiamondsCollected)
			}
		}

		if cop {
			cops++
			if r.TimesHidden != 0 {
				t.Errorf("record %d: cop with times hidden %d", i, r.TimesHidden)
			}
			if r.TimesSpedUp > 15 {
				t.Errorf("record %d: times sped up %d > 15", i, r.TimesSpedUp)
			}
		} else {
			robbers++
			if r.TimesSpedUp != 0 {
				t.Errorf("record %d: robber with times sped up %d", i, r.TimesSpedUp)
			}
			if r.TimesHidden > 15 {
				t.Errorf("record %d: times hidden %d > 15", i, r.TimesHidden)
			}
		}

		if want := scoring.Evaluate(r); r.Evaluation != want {
			t.Errorf("record %d: label %q, want %q", i, r.Evaluation, want)
		}
	}
	if cops == 0 || robbers == 0 {
		t.Errorf("expected both roles, got %d cops and %d robbers", cops, robbers)
	}
}

func TestSynthesize_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := NewSeeded(1).Synthesize(n); err == nil {
			t.Errorf("Synthesize(%d) = nil error, want error", n)
		}
	}
}

func TestSeedFromTime(t *testing.T) {
	if SeedFromTime() == 0 {
		t.Error("SeedFromTime returned 0")
	}
}
