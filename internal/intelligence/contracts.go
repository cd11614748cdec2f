package intelligence

import (
	"context"
	"errors"

	"github.com/alexanderramin/debot/internal/domain"
)

var (
	// ErrClassifierFailure means no reading of the message could be obtained.
	ErrClassifierFailure = errors.New("doubt classifier failure")
	// ErrGenerationFailure means no conversational reply could be produced.
	ErrGenerationFailure = errors.New("reply generation failure")
)

// DoubtClassifier reads a user message and extracts the subject-matter doubt
// it carries, if any.
type DoubtClassifier interface {
	Classify(ctx context.Context, text string) (domain.Doubt, error)
}

// ReplyGenerator produces the next assistant message for a conversation window.
type ReplyGenerator interface {
	Generate(ctx context.Context, window []domain.Message) (string, error)
}

// Embedder maps text to a vector. Model names the embedding model, so cached
// vectors from different models never mix.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}
