package llm

import "errors"

var (
	// ErrOllamaUnavailable indicates the Ollama server is unreachable.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")
	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")
	// ErrInvalidOutput indicates the response body was not what the
	// endpoint promises (empty text, missing embedding).
	ErrInvalidOutput = errors.New("invalid llm output")
	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
