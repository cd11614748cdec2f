package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/debot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCacheRepo_MissThenHit(t *testing.T) {
	repo := NewSQLiteEmbeddingCacheRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "nomic-embed-text", "análise nodal")
	require.NoError(t, err)
	assert.False(t, ok)

	vec := []float32{0.25, -1.5, 3}
	require.NoError(t, repo.Put(ctx, "nomic-embed-text", "análise nodal", vec))

	got, ok, err := repo.Get(ctx, "nomic-embed-text", "análise nodal")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vec, got)
}

func TestEmbeddingCacheRepo_KeyedByModel(t *testing.T) {
	repo := NewSQLiteEmbeddingCacheRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "model-a", "lei de ohm", []float32{1, 0}))

	_, ok, err := repo.Get(ctx, "model-b", "lei de ohm")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmbeddingCacheRepo_PutOverwrites(t *testing.T) {
	repo := NewSQLiteEmbeddingCacheRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "m", "fasor", []float32{1, 2}))
	require.NoError(t, repo.Put(ctx, "m", "fasor", []float32{3, 4, 5}))

	got, ok, err := repo.Get(ctx, "m", "fasor")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4, 5}, got)
}

func TestDecodeVector_RejectsWrongLength(t *testing.T) {
	_, err := decodeVector([]byte{1, 2, 3}, 1)
	assert.Error(t, err)
}
