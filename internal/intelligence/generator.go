package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/llm"
)

type replyGenerator struct {
	client llm.LLMClient
}

// NewReplyGenerator creates a ReplyGenerator that continues the window
// through the chat endpoint.
func NewReplyGenerator(client llm.LLMClient) ReplyGenerator {
	return &replyGenerator{client: client}
}

func (g *replyGenerator) Generate(ctx context.Context, window []domain.Message) (string, error) {
	msgs := make([]llm.ChatMessage, len(window))
	for i, m := range window {
		msgs[i] = llm.ChatMessage{Role: string(m.Role), Content: m.Content}
	}
	resp, err := g.client.Chat(ctx, llm.ChatRequest{Task: llm.TaskChat, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailure, llm.ErrInvalidOutput)
	}
	return reply, nil
}
