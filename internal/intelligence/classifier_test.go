package intelligence

import (
	"context"
	"testing"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDoubt(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Doubt
	}{
		{"None", domain.NoDoubt()},
		{" none. ", domain.NoDoubt()},
		{"", domain.NoDoubt()},
		{"Unsure", domain.AmbiguousDoubt()},
		{`"Unsure"`, domain.AmbiguousDoubt()},
		{"análise nodal", domain.TextDoubt("análise nodal")},
		{`"Fasor e Impedância".`, domain.TextDoubt("fasor e impedância")},
		{"Doubt: \"série de fourier\"", domain.TextDoubt("série de fourier")},
		{"lei de ohm?!", domain.TextDoubt("lei de ohm")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDoubt(tt.raw))
		})
	}
}

func TestDoubtClassifier_SendsMessageAsReviewText(t *testing.T) {
	client := &mockLLMClient{response: "análise nodal"}

	doubt, err := NewDoubtClassifier(client).Classify(context.Background(), "Eu não entendo análise nodal")
	require.NoError(t, err)
	assert.Equal(t, domain.TextDoubt("análise nodal"), doubt)

	require.Len(t, client.generated, 1)
	req := client.generated[0]
	assert.Equal(t, llm.TaskClassify, req.Task)
	assert.Contains(t, req.UserPrompt, "Eu não entendo análise nodal")
	assert.Contains(t, req.SystemPrompt, `"None"`)
	assert.Contains(t, req.SystemPrompt, `"Unsure"`)
}

func TestDoubtClassifier_ClientErrorIsClassifierFailure(t *testing.T) {
	client := &mockLLMClient{err: llm.ErrTimeout}

	_, err := NewDoubtClassifier(client).Classify(context.Background(), "oi")
	assert.ErrorIs(t, err, ErrClassifierFailure)
	assert.Contains(t, err.Error(), "timeout")
}
