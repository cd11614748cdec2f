package intelligence

import (
	"context"
	"testing"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyGenerator_SendsWholeWindowInOrder(t *testing.T) {
	client := &mockLLMClient{response: "  Olá! Em que posso ajudar?  "}
	window := []domain.Message{
		domain.SystemMessage(PersonaPrompt),
		domain.UserMessage("oi"),
		domain.SystemMessage("No doubt was found."),
	}

	reply, err := NewReplyGenerator(client).Generate(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, "Olá! Em que posso ajudar?", reply)

	require.Len(t, client.chats, 1)
	req := client.chats[0]
	assert.Equal(t, llm.TaskChat, req.Task)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "oi", req.Messages[1].Content)
}

func TestReplyGenerator_Failures(t *testing.T) {
	_, err := NewReplyGenerator(&mockLLMClient{err: llm.ErrOllamaUnavailable}).
		Generate(context.Background(), []domain.Message{domain.UserMessage("oi")})
	assert.ErrorIs(t, err, ErrGenerationFailure)

	_, err = NewReplyGenerator(&mockLLMClient{response: "   "}).
		Generate(context.Background(), []domain.Message{domain.UserMessage("oi")})
	assert.ErrorIs(t, err, ErrGenerationFailure)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}
