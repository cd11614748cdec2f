package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/debot/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CatalogRepo reads and replaces the course catalog.
type CatalogRepo interface {
	// ListModules returns every module in catalog order, without lessons
	// or keywords.
	ListModules(ctx context.Context) ([]domain.Module, error)
	GetModule(ctx context.Context, index int) (*domain.Module, error)
	Keywords(ctx context.Context, index int) ([]string, error)
	Lessons(ctx context.Context, index int) ([]domain.Lesson, error)
	// ReplaceCatalog atomically swaps the whole catalog for modules.
	ReplaceCatalog(ctx context.Context, modules []domain.Module) error
}

// EmbeddingCacheRepo stores embedding vectors keyed by model and text.
type EmbeddingCacheRepo interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Put(ctx context.Context, model, text string, vector []float32) error
}
