package recommend

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineDistance(t *testing.T) {
	d, err := CosineDistance([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-9)

	d, err = CosineDistance([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-9)

	d, err = CosineDistance([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2, d, 1e-9)

	d, err = CosineDistance([]float32{0, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-9)
}

func TestCosineDistance_InvalidVectors(t *testing.T) {
	_, err := CosineDistance(nil, []float32{1})
	assert.Error(t, err)

	_, err = CosineDistance([]float32{1, 2}, []float32{1})
	assert.Error(t, err)
}

func TestRanker_PicksNearestLesson(t *testing.T) {
	emb := testutil.NewBagEmbedder()
	emb.Vectors["análise nodal"] = []float32{1, 0.1, 0}
	emb.Vectors["Análise de malhas"] = []float32{0.2, 1, 0}
	emb.Vectors["Análise nodal"] = []float32{1, 0, 0}
	emb.Vectors["Teorema de Thévenin"] = []float32{0, 0, 1}

	r := NewRanker(circuitsCatalog(), emb, 4)
	got, err := r.Rank(context.Background(), 2, "análise nodal")

	require.NoError(t, err)
	assert.Equal(t, "Análise nodal", got.Lesson.Title)
	assert.Equal(t, "18:20", got.Lesson.Duration)
	assert.Len(t, emb.Calls(), 4, "doubt plus one call per lesson title")
}

func TestRanker_TieGoesToEarliestLesson(t *testing.T) {
	emb := testutil.NewBagEmbedder()
	same := []float32{1, 1}
	emb.Vectors["q"] = same
	emb.Vectors["Análise de malhas"] = []float32{0, 1}
	emb.Vectors["Análise nodal"] = same
	emb.Vectors["Teorema de Thévenin"] = same

	got, err := NewRanker(circuitsCatalog(), emb, 2).Rank(context.Background(), 2, "q")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Lesson.Position)
}

func TestRanker_ResultHasMinimumDistance(t *testing.T) {
	cat := circuitsCatalog()
	emb := testutil.NewBagEmbedder()
	doubt := "tensão no capacitor de um circuito"

	for _, m := range cat.Modules {
		got, err := NewRanker(cat, emb, 3).Rank(context.Background(), m.Index, doubt)
		require.NoError(t, err)

		assert.Contains(t, m.Lessons, got.Lesson)
		for _, l := range m.Lessons {
			d, err := CosineDistance(testutil.BagVector(doubt), testutil.BagVector(l.Title))
			require.NoError(t, err)
			assert.LessOrEqual(t, got.Distance, d+1e-12)
		}
	}
}

func TestRanker_EmbeddingFailureNoPartialResult(t *testing.T) {
	emb := testutil.NewBagEmbedder()
	emb.FailOn["Teorema de Thévenin"] = true

	got, err := NewRanker(circuitsCatalog(), emb, 4).Rank(context.Background(), 2, "análise nodal")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrEmbeddingService)
}

func TestRanker_DimensionMismatchIsEmbeddingError(t *testing.T) {
	emb := testutil.NewBagEmbedder()
	emb.Vectors["Capacitores"] = []float32{1}

	_, err := NewRanker(circuitsCatalog(), emb, 1).Rank(context.Background(), 1, "capacitor")
	assert.ErrorIs(t, err, ErrEmbeddingService)
}

func TestCosineDistance_NonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	_, err := CosineDistance([]float32{nan, 1}, []float32{1, 0})
	assert.Error(t, err)

	_, err = CosineDistance([]float32{0, 0}, []float32{nan, 1})
	assert.Error(t, err)

	_, err = CosineDistance([]float32{inf, 1}, []float32{1, 1})
	assert.Error(t, err)
}

func TestRanker_NaNEmbeddingIsEmbeddingError(t *testing.T) {
	emb := testutil.NewBagEmbedder()
	emb.Vectors["análise nodal"] = []float32{float32(math.NaN()), 1, 0}
	emb.Vectors["Análise de malhas"] = []float32{0.2, 1, 0}
	emb.Vectors["Análise nodal"] = []float32{1, 0, 0}
	emb.Vectors["Teorema de Thévenin"] = []float32{0, 0, 1}

	r := NewRanker(circuitsCatalog(), emb, 4)
	var (
		got *Ranked
		err error
	)
	require.NotPanics(t, func() {
		got, err = r.Rank(context.Background(), 2, "análise nodal")
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrEmbeddingService)
}

func TestRanker_EmptyModule(t *testing.T) {
	cat := &testutil.MemoryCatalog{Modules: []domain.Module{testutil.NewTestModule(0)}}

	_, err := NewRanker(cat, testutil.NewBagEmbedder(), 1).Rank(context.Background(), 0, "x")
	assert.ErrorIs(t, err, ErrNoLessons)
}

func TestRanker_LessonSourceFailure(t *testing.T) {
	cat := circuitsCatalog()
	cat.LessonErr = errors.New("modulo_03.json missing")

	_, err := NewRanker(cat, testutil.NewBagEmbedder(), 1).Rank(context.Background(), 2, "x")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

type countingEmbedder struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-c.release
	return testutil.BagVector(text), nil
}

func TestRanker_ConcurrencyIsBounded(t *testing.T) {
	emb := &countingEmbedder{release: make(chan struct{})}
	close(emb.release)

	_, err := NewRanker(circuitsCatalog(), emb, 2).Rank(context.Background(), 2, "análise nodal")
	require.NoError(t, err)
	assert.LessOrEqual(t, emb.peak.Load(), int32(2))
}
