package recommend

import (
	"context"

	"github.com/alexanderramin/debot/internal/domain"
)

// KeywordSource lists catalog modules and their keyword sets.
type KeywordSource interface {
	ListModules(ctx context.Context) ([]domain.Module, error)
	Keywords(ctx context.Context, index int) ([]string, error)
}

// LessonSource returns the ordered lessons of a module.
type LessonSource interface {
	Lessons(ctx context.Context, index int) ([]domain.Lesson, error)
}

// Catalog is everything the engine reads from the catalog store.
type Catalog interface {
	KeywordSource
	LessonSource
}

// Embedder turns text into a fixed-length vector. Doubts and lesson titles
// go through the same Embedder so their distances are comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
