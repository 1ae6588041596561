// Package llm defines the text-generation provider interface used by the
// counselor orchestrator and the session summarizer, plus an
// OpenAI-compatible adapter.
//
// The contract is one blocking call per completion, with no retry and no
// timeout policy beyond the HTTP client's. Callers needing resilience wrap
// the provider; callers needing fail-soft behaviour substitute fallback
// text when Complete returns an error.
package llm

import (
	"context"
	"errors"
)

// ErrRateLimit is returned when the upstream API reports a rate-limiting
// condition (HTTP 429). Callers should surface a user-visible message
// rather than silently retrying.
var ErrRateLimit = errors.New("llm: upstream rate limit exceeded")

// Role is the role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to a single LLM inference call. Plan and
// answer calls use the same provider with independent temperature and token
// budgets.
type CompletionRequest struct {
	// Model overrides the provider's default model when non-empty.
	Model string
	// Messages is the ordered conversation to complete.
	Messages []Message
	// Temperature controls sampling randomness. Zero means provider default.
	Temperature float64
	// MaxTokens bounds the completion length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is the output from the LLM.
type CompletionResponse struct {
	// Content is the assistant text produced.
	Content string
	// FinishReason explains why the model stopped ("stop", "length", ...).
	FinishReason string
	// Usage holds token count information for spend tracking.
	Usage TokenUsage
}

// TokenUsage reports token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is the text-generation capability.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
