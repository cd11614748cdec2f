package intelligence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/debot/internal/llm"
)

// mockLLMClient returns fixed responses and records requests.
type mockLLMClient struct {
	response string
	vectors  [][]float32
	err      error

	generated []llm.GenerateRequest
	chats     []llm.ChatRequest
	embedded  [][]string
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.generated = append(m.generated, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "llama3.2"}, nil
}

func (m *mockLLMClient) Chat(_ context.Context, req llm.ChatRequest) (*llm.GenerateResponse, error) {
	m.chats = append(m.chats, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "llama3.2"}, nil
}

func (m *mockLLMClient) Embed(_ context.Context, inputs []string) (*llm.EmbedResponse, error) {
	m.embedded = append(m.embedded, inputs)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.EmbedResponse{Vectors: m.vectors, Model: "nomic-embed-text"}, nil
}

func (m *mockLLMClient) EmbedModel() string { return "nomic-embed-text" }

func (m *mockLLMClient) Available(_ context.Context) bool { return m.err == nil }

// newHTTPTestServer starts an httptest server, skipping the test when the
// sandbox forbids local listeners.
func newHTTPTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP integration test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	return srv
}
