package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solace-ai/solace/internal/solace/llm"
)

const (
	// minTranscriptLen is the minimum flattened transcript length worth
	// sending to the LLM. Anything shorter gets the brief fallback without
	// spending a call.
	minTranscriptLen = 10

	summarizerTemperature = 0.5
	summarizerMaxTokens   = 1024

	// DefaultSummaryFallback is returned when summarisation fails upstream.
	DefaultSummaryFallback = "Session completed."

	// DefaultBriefFallback is returned for transcripts too short to carry
	// real content.
	DefaultBriefFallback = "Brief conversation session completed."
)

const summaryPromptHeader = "Summarize this mental health counseling conversation in 3-4 sentences. " +
	"Include: the main issue, people involved (with names), emotions expressed, and any advice given."

// LLMSummarizer implements Summarizer using a chat completion provider. It
// compresses a session transcript into a 3–4 sentence digest. The digest is
// embedded and persisted by the caller; the summarizer only generates text.
type LLMSummarizer struct {
	provider llm.Provider
	model    string
	fallback string
	brief    string
	logger   *slog.Logger
}

// LLMSummarizerConfig configures the summarizer. Zero values use the
// provider's default model and the fixed fallback strings.
type LLMSummarizerConfig struct {
	Model         string
	Fallback      string
	BriefFallback string
}

// NewLLMSummarizer creates a Summarizer backed by the given provider.
// If logger is nil, the default slog logger is used.
func NewLLMSummarizer(provider llm.Provider, cfg LLMSummarizerConfig, logger *slog.Logger) *LLMSummarizer {
	if cfg.Fallback == "" {
		cfg.Fallback = DefaultSummaryFallback
	}
	if cfg.BriefFallback == "" {
		cfg.BriefFallback = DefaultBriefFallback
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMSummarizer{
		provider: provider,
		model:    cfg.Model,
		fallback: cfg.Fallback,
		brief:    cfg.BriefFallback,
		logger:   logger,
	}
}

// Summarize produces a digest of the session transcript. Failures are
// non-fatal: upstream errors and empty responses yield the fixed fallback
// string, and transcripts with no real content yield the brief fallback
// without an LLM call.
func (s *LLMSummarizer) Summarize(ctx context.Context, messages []Message) string {
	transcript := Transcript(messages)

	if len(strings.TrimSpace(transcript)) < minTranscriptLen {
		s.logger.Debug("summarizer: transcript too short, using brief fallback",
			"transcript_len", len(transcript),
		)
		return s.brief
	}

	prompt := fmt.Sprintf("%s\n\nConversation:\n%s\n\nSummary:", summaryPromptHeader, transcript)

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: summarizerTemperature,
		MaxTokens:   summarizerMaxTokens,
	})
	if err != nil {
		s.logger.Warn("summarizer: completion failed, using fallback", "err", err)
		return s.fallback
	}

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		s.logger.Warn("summarizer: empty completion, using fallback")
		return s.fallback
	}

	s.logger.Debug("summarizer: generated summary",
		"messages", len(messages),
		"summary_len", len(summary),
	)

	return summary
}

// Transcript flattens messages into "Role: text" lines, skipping messages
// with empty text. Roles are title-cased for readability.
func Transcript(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", titleRole(m.Role), m.Content)
	}
	return b.String()
}

func titleRole(r Role) string {
	s := string(r)
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Compile-time interface satisfaction check.
var _ Summarizer = (*LLMSummarizer)(nil)
