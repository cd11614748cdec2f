package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogRepo(t *testing.T) *SQLiteCatalogRepo {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewSQLiteCatalogRepo(database, testutil.NewTestUoW(database))
}

func TestCatalogRepo_ReplaceAndList(t *testing.T) {
	repo := newCatalogRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceCatalog(ctx, testutil.CircuitsCatalog()))

	modules, err := repo.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 4)
	for i, m := range modules {
		assert.Equal(t, i, m.Index)
	}
	assert.Equal(t, domain.RangeMain, modules[0].Range)
	assert.Equal(t, domain.RangeLabs, modules[3].Range)
	assert.Equal(t, "Domínio Elétrico Labs", modules[3].Name)
}

func TestCatalogRepo_LessonsKeepInsertionOrder(t *testing.T) {
	repo := newCatalogRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceCatalog(ctx, testutil.CircuitsCatalog()))

	lessons, err := repo.Lessons(ctx, 2)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	assert.Equal(t, "Análise de malhas", lessons[0].Title)
	assert.Equal(t, "Análise nodal", lessons[1].Title)
	assert.Equal(t, "18:20", lessons[1].Duration)
	assert.Equal(t, 1, lessons[1].Position)
	assert.Equal(t, "Teorema de Thévenin", lessons[2].Title)
}

func TestCatalogRepo_KeywordsLowerCasedAndDeduplicated(t *testing.T) {
	repo := newCatalogRepo(t)
	ctx := context.Background()

	m := testutil.NewTestModule(0, testutil.WithKeywords("Nodal", "nodal", " NODAL ", "", "Malhas"))
	require.NoError(t, repo.ReplaceCatalog(ctx, []domain.Module{m}))

	keywords, err := repo.Keywords(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"malhas", "nodal"}, keywords)
}

func TestCatalogRepo_GetModule(t *testing.T) {
	repo := newCatalogRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceCatalog(ctx, testutil.CircuitsCatalog()))

	m, err := repo.GetModule(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2: Module 2", m.Name)
	assert.Len(t, m.Lessons, 2)
	assert.Contains(t, m.Keywords, "capacitor")
}

func TestCatalogRepo_GetModule_NotFound(t *testing.T) {
	repo := newCatalogRepo(t)

	_, err := repo.GetModule(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogRepo_UnknownModuleHasNoKeywords(t *testing.T) {
	repo := newCatalogRepo(t)

	keywords, err := repo.Keywords(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, keywords)
}

func TestCatalogRepo_ReplaceCatalogDropsPreviousCatalog(t *testing.T) {
	repo := newCatalogRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceCatalog(ctx, testutil.CircuitsCatalog()))

	replacement := []domain.Module{
		testutil.NewTestModule(0, testutil.WithLessons("Única aula", "01:00")),
	}
	require.NoError(t, repo.ReplaceCatalog(ctx, replacement))

	modules, err := repo.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	lessons, err := repo.Lessons(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestCatalogRepo_ReplaceCatalogRollsBackOnInvalidModule(t *testing.T) {
	repo := newCatalogRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceCatalog(ctx, testutil.CircuitsCatalog()))

	bad := []domain.Module{
		testutil.NewTestModule(0),
		testutil.NewTestModule(1, testutil.WithRange("extra")),
	}
	require.Error(t, repo.ReplaceCatalog(ctx, bad))

	modules, err := repo.ListModules(ctx)
	require.NoError(t, err)
	assert.Len(t, modules, 4, "failed import must leave the old catalog in place")
}
