package testutil

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/alexanderramin/debot/internal/domain"
)

// ErrFake is the default error returned by failing doubles.
var ErrFake = errors.New("fake failure")

const bagDims = 64

// BagEmbedder is a deterministic embedder: each lower-cased word adds 1 to a
// hashed dimension, so texts sharing words are close in cosine distance.
type BagEmbedder struct {
	mu      sync.Mutex
	calls   []string
	Vectors map[string][]float32 // exact-text overrides
	FailOn  map[string]bool      // texts that fail; "*" fails all
	Err     error
}

func NewBagEmbedder() *BagEmbedder {
	return &BagEmbedder{Vectors: map[string][]float32{}, FailOn: map[string]bool{}}
}

func (e *BagEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls = append(e.calls, text)
	fail := e.FailOn["*"] || e.FailOn[text]
	override, hasOverride := e.Vectors[text]
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fail {
		if e.Err != nil {
			return nil, e.Err
		}
		return nil, ErrFake
	}
	if hasOverride {
		return override, nil
	}
	return BagVector(text), nil
}

// Model names the fake embedding model.
func (e *BagEmbedder) Model() string { return "bag-of-words" }

// Calls returns every text embedded so far, in call order.
func (e *BagEmbedder) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// BagVector is the vector BagEmbedder produces for text.
func BagVector(text string) []float32 {
	v := make([]float32, bagDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if w == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(w))
		v[h.Sum32()%bagDims]++
	}
	return v
}

// FakeClassifier returns a fixed doubt or error and records its inputs.
type FakeClassifier struct {
	mu     sync.Mutex
	Doubt  domain.Doubt
	Err    error
	Inputs []string
}

func (c *FakeClassifier) Classify(_ context.Context, text string) (domain.Doubt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Inputs = append(c.Inputs, text)
	if c.Err != nil {
		return domain.Doubt{}, c.Err
	}
	return c.Doubt, nil
}

// FakeGenerator returns a fixed reply and records the windows it was given.
type FakeGenerator struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Windows [][]domain.Message
}

func (g *FakeGenerator) Generate(_ context.Context, window []domain.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Windows = append(g.Windows, append([]domain.Message(nil), window...))
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

// Calls returns how many times Generate ran.
func (g *FakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Windows)
}

// LastWindow returns the window passed to the latest Generate call.
func (g *FakeGenerator) LastWindow() []domain.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Windows) == 0 {
		return nil
	}
	return g.Windows[len(g.Windows)-1]
}

// MemoryCatalog is an in-memory catalog for engine tests.
type MemoryCatalog struct {
	Modules    []domain.Module
	ListErr    error
	KeywordErr error
	LessonErr  error
}

func (c *MemoryCatalog) ListModules(context.Context) ([]domain.Module, error) {
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	out := make([]domain.Module, len(c.Modules))
	for i, m := range c.Modules {
		out[i] = domain.Module{Index: m.Index, Name: m.Name, Range: m.Range}
	}
	return out, nil
}

func (c *MemoryCatalog) Keywords(_ context.Context, index int) ([]string, error) {
	if c.KeywordErr != nil {
		return nil, c.KeywordErr
	}
	for _, m := range c.Modules {
		if m.Index == index {
			return m.Keywords, nil
		}
	}
	return []string{}, nil
}

func (c *MemoryCatalog) Lessons(_ context.Context, index int) ([]domain.Lesson, error) {
	if c.LessonErr != nil {
		return nil, c.LessonErr
	}
	for _, m := range c.Modules {
		if m.Index == index {
			return m.Lessons, nil
		}
	}
	return nil, nil
}
