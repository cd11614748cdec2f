package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/llm"
)

const quoteChars = "\"'`“”"

type doubtClassifier struct {
	client llm.LLMClient
}

// NewDoubtClassifier creates a DoubtClassifier backed by an LLM client.
func NewDoubtClassifier(client llm.LLMClient) DoubtClassifier {
	return &doubtClassifier{client: client}
}

func (c *doubtClassifier) Classify(ctx context.Context, text string) (domain.Doubt, error) {
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskClassify,
		SystemPrompt: buildClassifySystemPrompt(),
		UserPrompt:   buildClassifyUserPrompt(text),
	})
	if err != nil {
		return domain.Doubt{}, fmt.Errorf("%w: %v", ErrClassifierFailure, err)
	}
	return ParseDoubt(resp.Text), nil
}

// ParseDoubt turns a raw classifier answer into a Doubt. Empty answers read
// as no doubt.
func ParseDoubt(raw string) domain.Doubt {
	s := strings.TrimSpace(raw)
	// Models sometimes echo the few-shot label.
	if len(s) >= 6 && strings.EqualFold(s[:6], "doubt:") {
		s = strings.TrimSpace(s[6:])
	}
	s = strings.TrimLeft(s, quoteChars)
	s = strings.TrimRight(s, quoteChars+".!?,;: ")
	s = strings.TrimSpace(s)

	switch {
	case s == "", strings.EqualFold(s, answerNoDoubt):
		return domain.NoDoubt()
	case strings.EqualFold(s, answerUnsure):
		return domain.AmbiguousDoubt()
	}
	return domain.TextDoubt(strings.ToLower(s))
}
