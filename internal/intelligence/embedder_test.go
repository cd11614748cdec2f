package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/debot/internal/llm"
	"github.com/alexanderramin/debot/internal/repository"
	"github.com/alexanderramin/debot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMEmbedder_Embed(t *testing.T) {
	client := &mockLLMClient{vectors: [][]float32{{0.1, 0.2}}}
	e := NewLLMEmbedder(client)

	v, err := e.Embed(context.Background(), "análise nodal")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, v)
	assert.Equal(t, [][]string{{"análise nodal"}}, client.embedded)
	assert.Equal(t, "nomic-embed-text", e.Model())
}

func TestLLMEmbedder_EmptyVectorIsInvalid(t *testing.T) {
	_, err := NewLLMEmbedder(&mockLLMClient{vectors: [][]float32{{}}}).Embed(context.Background(), "x")
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache := repository.NewSQLiteEmbeddingCacheRepo(db)
	inner := testutil.NewBagEmbedder()
	e := NewCachedEmbedder(inner, cache, nil)
	ctx := context.Background()

	first, err := e.Embed(ctx, "Lei de Ohm")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "Lei de Ohm")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Lei de Ohm"}, inner.Calls(), "second call served from cache")
	assert.Equal(t, "bag-of-words", e.Model())
}

func TestCachedEmbedder_InnerFailureNotCached(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache := repository.NewSQLiteEmbeddingCacheRepo(db)
	inner := testutil.NewBagEmbedder()
	inner.FailOn["*"] = true
	e := NewCachedEmbedder(inner, cache, nil)

	_, err := e.Embed(context.Background(), "Capacitores")
	assert.ErrorIs(t, err, testutil.ErrFake)

	_, ok, err := cache.Get(context.Background(), "bag-of-words", "Capacitores")
	require.NoError(t, err)
	assert.False(t, ok)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, string) ([]float32, bool, error) {
	return nil, false, errors.New("disk gone")
}

func (brokenCache) Put(context.Context, string, string, []float32) error {
	return errors.New("disk gone")
}

func TestCachedEmbedder_CacheErrorsDoNotFailEmbedding(t *testing.T) {
	inner := testutil.NewBagEmbedder()
	v, err := NewCachedEmbedder(inner, brokenCache{}, nil).Embed(context.Background(), "Indutores")
	require.NoError(t, err)
	assert.Equal(t, testutil.BagVector("Indutores"), v)
}
