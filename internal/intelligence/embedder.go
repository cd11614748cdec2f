package intelligence

import (
	"context"
	"fmt"

	"github.com/alexanderramin/debot/internal/llm"
	"github.com/alexanderramin/debot/internal/logger"
	"github.com/alexanderramin/debot/internal/repository"
)

type llmEmbedder struct {
	client llm.LLMClient
}

// NewLLMEmbedder creates an Embedder over the client's embedding model.
func NewLLMEmbedder(client llm.LLMClient) Embedder {
	return &llmEmbedder{client: client}
}

func (e *llmEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	v := resp.Vectors[0]
	if len(v) == 0 {
		return nil, fmt.Errorf("embedding text: %w: empty vector", llm.ErrInvalidOutput)
	}
	return v, nil
}

func (e *llmEmbedder) Model() string { return e.client.EmbedModel() }

// CachedEmbedder serves vectors from a persistent cache and fills it on miss.
// Cache errors are logged and never fail an embedding.
type CachedEmbedder struct {
	inner Embedder
	cache repository.EmbeddingCacheRepo
	log   *logger.Logger
}

func NewCachedEmbedder(inner Embedder, cache repository.EmbeddingCacheRepo, log *logger.Logger) *CachedEmbedder {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedEmbedder{inner: inner, cache: cache, log: log}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.inner.Model()
	v, ok, err := e.cache.Get(ctx, model, text)
	if err != nil {
		e.log.Warn("embedding cache read failed", "model", model, "error", err)
	} else if ok {
		return v, nil
	}

	v, err = e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Put(ctx, model, text, v); err != nil {
		e.log.Warn("embedding cache write failed", "model", model, "error", err)
	}
	return v, nil
}

func (e *CachedEmbedder) Model() string { return e.inner.Model() }
