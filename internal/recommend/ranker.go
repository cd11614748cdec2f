package recommend

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/debot/internal/domain"
)

// Ranked is the lesson nearest to a doubt within one module.
type Ranked struct {
	Lesson   domain.Lesson
	Distance float64
}

// Ranker picks, inside a module, the lesson whose title is semantically
// closest to the doubt.
type Ranker struct {
	lessons     LessonSource
	embedder    Embedder
	concurrency int
}

// NewRanker creates a Ranker. concurrency bounds parallel embedding calls;
// values below 1 mean one call at a time.
func NewRanker(lessons LessonSource, embedder Embedder, concurrency int) *Ranker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Ranker{lessons: lessons, embedder: embedder, concurrency: concurrency}
}

// Rank embeds the doubt and every lesson title of the module and returns the
// lesson at minimum cosine distance. Ties go to the earliest lesson.
func (r *Ranker) Rank(ctx context.Context, moduleIndex int, doubt string) (*Ranked, error) {
	lessons, err := r.lessons.Lessons(ctx, moduleIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: lessons for module %d: %v", ErrCatalogUnavailable, moduleIndex, err)
	}
	if len(lessons) == 0 {
		return nil, fmt.Errorf("module %d: %w", moduleIndex, ErrNoLessons)
	}

	// Slot 0 holds the doubt, slot i+1 the title of lessons[i].
	vectors := make([][]float32, len(lessons)+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	embedInto := func(slot int, text string) {
		g.Go(func() error {
			v, err := r.embedder.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("%w: embedding %q: %v", ErrEmbeddingService, text, err)
			}
			vectors[slot] = v
			return nil
		})
	}
	embedInto(0, doubt)
	for i, l := range lessons {
		embedInto(i+1, l.Title)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	query := vectors[0]
	best := -1
	bestDist := math.Inf(1)
	for i := range lessons {
		d, err := CosineDistance(query, vectors[i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: lesson %q: %v", ErrEmbeddingService, lessons[i].Title, err)
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w: no comparable lesson in module %d", ErrEmbeddingService, moduleIndex)
	}
	return &Ranked{Lesson: lessons[best], Distance: bestDist}, nil
}

// CosineDistance is 1 minus the cosine similarity of a and b. A zero vector
// has similarity 0 with everything. NaN or infinite components are errors.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		if !isFinite(x) || !isFinite(y) {
			return 0, fmt.Errorf("non-finite component at %d", i)
		}
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1, nil
	}
	d := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	if !isFinite(d) {
		return 0, fmt.Errorf("non-finite distance")
	}
	return d, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
