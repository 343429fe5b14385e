package identify

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/datastore"
	"github.com/wgamage/snakeid-go/internal/errors"
	"github.com/wgamage/snakeid-go/internal/snakenet"
)

// fakePipeline returns a fixed prediction or error.
type fakePipeline struct {
	pred snakenet.Prediction
	err  error
}

func (f *fakePipeline) IdentifyImage(_ []byte) (snakenet.Prediction, error) {
	return f.pred, f.err
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T, pipeline Pipeline) (*Service, datastore.Interface) {
	t.Helper()

	settings := &conf.Settings{}
	settings.SnakeNet.ClassLabels = []string{"0", "1", "2"}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "identify-test.db")

	store := &datastore.SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		_ = store.Close()
	})

	return New(settings, pipeline, store, nil), store
}

func TestIdentifyResolvesSpeciesAndLookalikes(t *testing.T) {
	t.Parallel()
	pipeline := &fakePipeline{pred: snakenet.Prediction{ClassIndex: 1, Confidence: 0.93}}
	svc, store := newTestService(t, pipeline)

	krait := &datastore.Species{EnglishName: "Common Krait", ClassLabel: strPtr("1")}
	require.NoError(t, store.CreateSpecies(krait))
	wolf := &datastore.Species{EnglishName: "Wolf Snake"}
	require.NoError(t, store.CreateSpeciesWithRelation(wolf, krait.ID))

	res, err := svc.Identify([]byte("image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "1", res.ClassLabel)
	assert.Equal(t, "Common Krait", res.Species.EnglishName)
	assert.InDelta(t, 0.93, float64(res.Prediction.Confidence), 1e-6)
	require.Len(t, res.RelatedSpecies, 1)
	assert.Equal(t, "Wolf Snake", res.RelatedSpecies[0].EnglishName)
}

func TestIdentifyNoLookalikes(t *testing.T) {
	t.Parallel()
	pipeline := &fakePipeline{pred: snakenet.Prediction{ClassIndex: 0, Confidence: 0.5}}
	svc, store := newTestService(t, pipeline)

	require.NoError(t, store.CreateSpecies(&datastore.Species{
		EnglishName: "Indian Cobra",
		ClassLabel:  strPtr("0"),
	}))

	res, err := svc.Identify([]byte("image bytes"))
	require.NoError(t, err)
	assert.Empty(t, res.RelatedSpecies)
}

func TestIdentifyClassIndexOutOfRange(t *testing.T) {
	t.Parallel()
	pipeline := &fakePipeline{pred: snakenet.Prediction{ClassIndex: 7, Confidence: 0.99}}
	svc, _ := newTestService(t, pipeline)

	_, err := svc.Identify([]byte("image bytes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnclassifiedResult))
}

func TestIdentifyNoCuratedSpeciesForLabel(t *testing.T) {
	t.Parallel()
	pipeline := &fakePipeline{pred: snakenet.Prediction{ClassIndex: 2, Confidence: 0.8}}
	svc, _ := newTestService(t, pipeline)

	_, err := svc.Identify([]byte("image bytes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnclassifiedResult))
}

func TestIdentifyPipelineErrorsPassThrough(t *testing.T) {
	t.Parallel()

	for _, sentinel := range []error{
		snakenet.ErrModelNotReady,
		snakenet.ErrInvalidImage,
		snakenet.ErrInference,
	} {
		pipeline := &fakePipeline{err: sentinel}
		svc, _ := newTestService(t, pipeline)

		_, err := svc.Identify([]byte("image bytes"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, sentinel))
		assert.False(t, errors.Is(err, ErrUnclassifiedResult),
			"pipeline failures are not unclassified results")
	}
}
