package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskClassify TaskType = "classify"
	TaskChat     TaskType = "chat"
	TaskEmbed    TaskType = "embed"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	LogCalls   bool
	Endpoint   string
	Model      string // doubt extraction
	ChatModel  string // free conversation over the window
	EmbedModel string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. Classification
// runs at temperature 0 so the same message yields the same doubt.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		ChatModel:  "llama3.2",
		EmbedModel: "nomic-embed-text",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskClassify: {Temperature: 0, MaxTokens: 64, TimeoutMs: 10000},
			TaskChat:     {Temperature: 0.2, MaxTokens: 256, TimeoutMs: 20000},
			TaskEmbed:    {TimeoutMs: 5000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("DEBOT_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("DEBOT_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("DEBOT_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("DEBOT_LLM_CHAT_MODEL"); v != "" {
		cfg.ChatModel = v
	}
	if v := os.Getenv("DEBOT_LLM_EMBED_MODEL"); v != "" {
		cfg.EmbedModel = v
	}
	if v := os.Getenv("DEBOT_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("DEBOT_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskClassify, "DEBOT_LLM_CLASSIFY_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskChat, "DEBOT_LLM_CHAT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskEmbed, "DEBOT_LLM_EMBED_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
