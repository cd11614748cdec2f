package recommend

import "errors"

var (
	// ErrCatalogUnavailable indicates keyword or lesson data could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrEmbeddingService indicates an embedding could not be obtained or
	// was unusable (empty, wrong dimension).
	ErrEmbeddingService = errors.New("embedding service error")
	// ErrNoLessons indicates a selected module has nothing to recommend.
	ErrNoLessons = errors.New("module has no lessons")
)
