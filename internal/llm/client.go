package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for a single-prompt generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of a generation or chat call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// ChatMessage is one role-tagged turn sent to the chat endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest holds the parameters for a multi-turn chat call.
type ChatRequest struct {
	Task        TaskType
	Messages    []ChatMessage
	Temperature *float64
	MaxTokens   *int
}

// EmbedResponse holds one vector per input, in input order.
type EmbedResponse struct {
	Vectors   [][]float32
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model.
type LLMClient interface {
	// Generate sends a single prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// Chat continues a conversation and returns the assistant's reply.
	Chat(ctx context.Context, req ChatRequest) (*GenerateResponse, error)
	// Embed returns embedding vectors for inputs using the embedding model.
	Embed(ctx context.Context, inputs []string) (*EmbedResponse, error)
	// EmbedModel names the model Embed uses.
	EmbedModel() string
	// Available checks whether the Ollama server is reachable.
	Available(ctx context.Context) bool
}

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaGenerateRequest is the JSON body sent to POST /api/generate.
type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// ollamaChatRequest is the JSON body sent to POST /api/chat.
type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaChatResponse struct {
	Model   string      `json:"model"`
	Message ChatMessage `json:"message"`
}

// ollamaEmbedRequest is the JSON body sent to POST /api/embed.
type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

func (c *ollamaClient) options(task TaskType, temperature *float64, maxTokens *int) ollamaOptions {
	taskCfg := c.cfg.Tasks[task]
	opts := ollamaOptions{Temperature: taskCfg.Temperature, NumPredict: taskCfg.MaxTokens}
	if temperature != nil {
		opts.Temperature = *temperature
	}
	if maxTokens != nil {
		opts.NumPredict = *maxTokens
	}
	return opts
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	body := ollamaGenerateRequest{
		Model:   c.cfg.Model,
		System:  req.SystemPrompt,
		Prompt:  req.UserPrompt,
		Stream:  false,
		Options: c.options(req.Task, req.Temperature, req.MaxTokens),
	}

	var resp ollamaGenerateResponse
	latency, err := c.call(ctx, req.Task, c.cfg.Model, "/api/generate", body, &resp)
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Text: resp.Response, Model: resp.Model, LatencyMs: latency}, nil
}

func (c *ollamaClient) Chat(ctx context.Context, req ChatRequest) (*GenerateResponse, error) {
	body := ollamaChatRequest{
		Model:    c.cfg.ChatModel,
		Messages: req.Messages,
		Stream:   false,
		Options:  c.options(req.Task, req.Temperature, req.MaxTokens),
	}

	var resp ollamaChatResponse
	latency, err := c.call(ctx, req.Task, c.cfg.ChatModel, "/api/chat", body, &resp)
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Text: resp.Message.Content, Model: resp.Model, LatencyMs: latency}, nil
}

func (c *ollamaClient) Embed(ctx context.Context, inputs []string) (*EmbedResponse, error) {
	if len(inputs) == 0 {
		return &EmbedResponse{Vectors: [][]float32{}, Model: c.cfg.EmbedModel}, nil
	}
	body := ollamaEmbedRequest{Model: c.cfg.EmbedModel, Input: inputs}

	var resp ollamaEmbedResponse
	latency, err := c.call(ctx, TaskEmbed, c.cfg.EmbedModel, "/api/embed", body, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("%w: requested %d embeddings, got %d",
			ErrInvalidOutput, len(inputs), len(resp.Embeddings))
	}
	return &EmbedResponse{Vectors: resp.Embeddings, Model: resp.Model, LatencyMs: latency}, nil
}

func (c *ollamaClient) EmbedModel() string { return c.cfg.EmbedModel }

// call posts body to path with the task's timeout and retry budget and
// decodes the JSON answer into out.
func (c *ollamaClient) call(ctx context.Context, task TaskType, model, path string, body, out any) (int64, error) {
	start := time.Now()

	timeoutMs := c.cfg.TaskTimeout(task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		err := c.doRequest(ctx, path, body, out)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      task,
				Model:     model,
				LatencyMs: latency,
				Success:   true,
			})
			return latency, nil
		}
		lastErr = err
		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
	}

	var finalErr error
	switch {
	case ctx.Err() != nil:
		finalErr = ErrTimeout
	case isConnectionError(lastErr):
		finalErr = ErrOllamaUnavailable
	default:
		finalErr = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}

	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Model:     model,
		LatencyMs: latency,
		Success:   false,
		ErrorCode: errorCode(finalErr),
	})
	return latency, finalErr
}

func (c *ollamaClient) doRequest(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
