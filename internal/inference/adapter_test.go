package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diffeval/internal/artifact"
	"github.com/abhisek/diffeval/internal/gbt"
	"github.com/abhisek/diffeval/internal/prep"
	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/store"
	"github.com/abhisek/diffeval/internal/synth"
	"github.com/abhisek/diffeval/internal/train"
)

var (
	modelOnce  sync.Once
	modelBytes []byte
	modelErr   error
)

// writeModel trains a small model once and writes a copy into a fresh
// temp directory for each test.
func writeModel(t *testing.T) string {
	t.Helper()
	modelOnce.Do(func() {
		records, err := synth.NewSeeded(99).Synthesize(1000)
		if err != nil {
			modelErr = err
			return
		}
		p, err := prep.Prepare(records, nil)
		if err != nil {
			modelErr = err
			return
		}
		cfg := train.DefaultConfig()
		cfg.Boost.Rounds = 40
		res, err := train.Train(context.Background(), p, cfg, nil)
		if err != nil {
			modelErr = err
			return
		}
		var buf bytes.Buffer
		modelErr = artifact.Encode(&buf, res.Artifact(p))
		modelBytes = buf.Bytes()
	})
	require.NoError(t, modelErr)

	path := filepath.Join(t.TempDir(), artifact.DefaultFile)
	require.NoError(t, os.WriteFile(path, modelBytes, 0o644))
	return path
}

type fakeHost struct {
	features  map[string]float64
	onRead    func()
	featErr   error
	adjustErr error
	adjusted  []session.Direction
	seen      *Prediction
}

func (h *fakeHost) SessionFeatures(context.Context) (map[string]float64, error) {
	if h.onRead != nil {
		h.onRead()
	}
	return h.features, h.featErr
}

func (h *fakeHost) AdjustDifficulty(ctx context.Context, d session.Direction) error {
	h.adjusted = append(h.adjusted, d)
	h.seen, _ = PredictionFrom(ctx)
	return h.adjustErr
}

// A lost cop session scoring +6: every rule points towards an easier game.
func easierSession() session.Record {
	return session.Record{
		SuccessState:      0,
		SessionLength:     120,
		PlayerType:        session.Cop,
		RobbersTagged:     20,
		TimesSpedUp:       12,
		DiamondsCollected: 100,
		TimesHidden:       0,
	}
}

// A quickly won cop session scoring -4.
func harderSession() session.Record {
	return session.Record{
		SuccessState:      1,
		SessionLength:     30,
		PlayerType:        session.Cop,
		RobbersTagged:     100,
		TimesSpedUp:       2,
		DiamondsCollected: 20,
		TimesHidden:       0,
	}
}

func TestApply_Directions(t *testing.T) {
	tests := []struct {
		name  string
		rec   session.Record
		label session.Label
		dir   session.Direction
	}{
		{"easier", easierSession(), session.LabelEasier, session.Decrease},
		{"harder", harderSession(), session.LabelHarder, session.Increase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeModel(t)
			host := &fakeHost{features: tt.rec.Features()}

			pred, err := New(path).Apply(context.Background(), host)
			require.NoError(t, err)

			assert.Equal(t, tt.label, pred.Label)
			assert.Equal(t, tt.dir, pred.Direction)
			assert.Equal(t, []session.Direction{tt.dir}, host.adjusted)
			require.NotNil(t, host.seen)
			assert.Equal(t, pred.ModelID, host.seen.ModelID)

			sum := 0.0
			for _, p := range pred.Probabilities {
				sum += p
			}
			assert.InDelta(t, 1, sum, 1e-9)
		})
	}
}

func TestApply_MissingFeatures(t *testing.T) {
	path := writeModel(t)
	features := easierSession().Features()
	delete(features, session.ColTimesHidden)
	delete(features, session.ColSessionLength)
	host := &fakeHost{features: features}

	_, err := New(path).Apply(context.Background(), host)

	var sme *SchemaMismatchError
	require.ErrorAs(t, err, &sme)
	assert.Equal(t, []string{session.ColSessionLength, session.ColTimesHidden}, sme.Missing)
	assert.Empty(t, host.adjusted)
}

func TestApply_MissingModel(t *testing.T) {
	host := &fakeHost{features: easierSession().Features()}
	_, err := New(filepath.Join(t.TempDir(), artifact.DefaultFile)).Apply(context.Background(), host)

	var le *artifact.LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, artifact.ErrMissing)
	assert.Empty(t, host.adjusted)
}

func TestApply_CorruptModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o644))

	_, err := New(path).Apply(context.Background(), &fakeHost{features: easierSession().Features()})
	var le *artifact.LoadError
	assert.ErrorAs(t, err, &le)
}

func TestApply_HostErrors(t *testing.T) {
	path := writeModel(t)

	_, err := New(path).Apply(context.Background(), &fakeHost{featErr: errors.New("no session")})
	assert.ErrorContains(t, err, "read session features")

	host := &fakeHost{features: easierSession().Features(), adjustErr: errors.New("game closed")}
	_, err = New(path).Apply(context.Background(), host)
	assert.ErrorContains(t, err, "adjust difficulty: game closed")
}

func TestApply_WriteBack(t *testing.T) {
	for _, on := range []bool{true, false} {
		t.Run(fmt.Sprint(on), func(t *testing.T) {
			path := writeModel(t)
			old := time.Now().Add(-time.Hour).Truncate(time.Second)
			require.NoError(t, os.Chtimes(path, old, old))
			before, err := artifact.Load(path)
			require.NoError(t, err)

			_, err = New(path, WithWriteBack(on)).Apply(context.Background(), &fakeHost{features: easierSession().Features()})
			require.NoError(t, err)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, on, info.ModTime().After(old), "modified")

			after, err := artifact.Load(path)
			require.NoError(t, err)
			assert.Equal(t, before.ModelID, after.ModelID)
		})
	}
}

func TestApply_WriteBackFailureLeavesGameUntouched(t *testing.T) {
	src := writeModel(t)
	raw, err := os.ReadFile(src)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "models")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, artifact.DefaultFile)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	// Once the model is loaded, turn its directory into a plain file so the
	// write-back cannot recreate it.
	host := &fakeHost{features: easierSession().Features(), onRead: func() {
		require.NoError(t, os.RemoveAll(dir))
		require.NoError(t, os.WriteFile(dir, nil, 0o644))
	}}
	_, err = New(path, WithWriteBack(true)).Apply(context.Background(), host)
	assert.ErrorContains(t, err, "write back model")
	assert.Empty(t, host.adjusted)
}

func TestApply_InconsistentTree(t *testing.T) {
	path := writeModel(t)
	art, err := artifact.Load(path)
	require.NoError(t, err)

	tree := &art.Model.Ensembles[0].Trees[0]
	tree.Nodes = []gbt.Node{{FeatureIndex: 0, Threshold: 0.5, LeftChild: 7, LeftIsLeaf: true, RightChild: 0, RightIsLeaf: true}}
	tree.Outputs = []float64{0.1}
	tree.Depth = 1
	require.NoError(t, artifact.Save(path, art))

	host := &fakeHost{features: easierSession().Features()}
	_, err = New(path).Apply(context.Background(), host)
	var le *artifact.LoadError
	require.ErrorAs(t, err, &le)
	assert.Empty(t, host.adjusted)
}

func TestVector_ScalesInColumnOrder(t *testing.T) {
	path := writeModel(t)
	art, err := artifact.Load(path)
	require.NoError(t, err)

	rec := easierSession()
	vec, err := Vector(art, rec.Features())
	require.NoError(t, err)
	require.Len(t, vec, len(art.FeatureColumns))

	for i, col := range art.FeatureColumns {
		raw, _ := rec.Value(col)
		want, _ := art.Scaler.Scale(col, raw)
		assert.Equal(t, want, vec[i], col)
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecorder_AppendsPredictionEvents(t *testing.T) {
	path := writeModel(t)
	s := openTestStore(t)
	ctx := context.Background()

	host := WithRecorder(&fakeHost{features: harderSession().Features()}, s.EventRepo())
	pred, err := New(path).Apply(ctx, host)
	require.NoError(t, err)

	failing := WithRecorder(&fakeHost{features: harderSession().Features(), adjustErr: errors.New("game closed")}, s.EventRepo())
	_, err = New(path).Apply(ctx, failing)
	require.Error(t, err)

	events, err := s.EventRepo().QueryPredictions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	failed, applied := events[0], events[1]
	assert.True(t, applied.Applied)
	assert.Equal(t, pred.ModelID, applied.ModelID)
	assert.Equal(t, string(session.Increase), applied.Direction)
	assert.Equal(t, string(session.LabelHarder), applied.Label)
	assert.Equal(t, 30.0, applied.Features[session.ColSessionLength])

	assert.False(t, failed.Applied)
	assert.Equal(t, "game closed", failed.ErrorMessage)
}
