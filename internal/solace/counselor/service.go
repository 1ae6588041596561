// Package counselor implements the conversation orchestrator: it freezes
// retrieved context at session start, assembles the plan and answer prompts
// for every turn, persists turns through the session-memory layer, and
// drives end-of-session summarisation.
package counselor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solace-ai/solace/internal/solace/llm"
	"github.com/solace-ai/solace/internal/solace/memory"
	"github.com/solace-ai/solace/internal/solace/persona"
)

var (
	// ErrEmptyMessage rejects turns with no message text.
	ErrEmptyMessage = errors.New("counselor: empty message")
	// ErrUnknownSession rejects end-session calls for sessions that never
	// stored a message.
	ErrUnknownSession = errors.New("counselor: unknown session")
	// ErrDuplicateSummary rejects a second end-session under the reject
	// duplicate policy.
	ErrDuplicateSummary = errors.New("counselor: session already summarized")
)

// SummaryPolicy decides what happens when a session is closed more than
// once.
type SummaryPolicy string

const (
	// SummaryAllow inserts a new summary record per close; re-closing
	// after more messages yields a fresher digest. This is the default.
	SummaryAllow SummaryPolicy = "allow"
	// SummaryReject refuses a second close with ErrDuplicateSummary.
	SummaryReject SummaryPolicy = "reject"
	// SummaryOverwrite replaces earlier summaries for the session.
	SummaryOverwrite SummaryPolicy = "overwrite"
)

// Config holds the orchestrator's tunables. Zero values fall back to the
// memory package defaults and the allow policy.
type Config struct {
	// Model overrides the provider's default chat model.
	Model string
	// RetrievalLimit is the max number of relevant past messages pulled
	// into the session context.
	RetrievalLimit int
	// SimilarityThreshold is the minimum cosine similarity for retrieval.
	// Nil means the default; an explicit 0.0 is a valid (admit-everything)
	// threshold, so the zero value cannot stand in for "unset".
	SimilarityThreshold *float64
	// SummaryLimit is the number of recent session digests included.
	SummaryLimit int
	// SummaryPolicy handles repeated end-session calls.
	SummaryPolicy SummaryPolicy
}

// Deps are the orchestrator's collaborators.
type Deps struct {
	Provider   llm.Provider
	Embedder   memory.Embedder
	History    memory.HistoryStore
	Summaries  memory.SummaryStore
	Retriever  *memory.Retriever
	Summarizer memory.Summarizer
	Buffer     *memory.TurnBuffer
	Persona    *persona.Persona
	Logger     *slog.Logger
}

// Reply is the result of one turn.
type Reply struct {
	Answer      string
	SessionID   string
	ContextUsed bool
}

// EndResult is the result of closing a session.
type EndResult struct {
	Summary            string
	MessageCount       int
	NothingToSummarize bool
}

// sessionState holds per-session in-memory state: the context frozen at the
// first turn, and a mutex serialising concurrent turns on the same session.
type sessionState struct {
	mu      sync.Mutex
	started bool
	context string
}

// Service is the conversation orchestrator. Per-session mutation is guarded
// by a per-session-id lock; the memory layer underneath stays synchronous
// and unaware of concurrency.
type Service struct {
	provider   llm.Provider
	embedder   memory.Embedder
	history    memory.HistoryStore
	summaries  memory.SummaryStore
	retriever  *memory.Retriever
	summarizer memory.Summarizer
	buffer     *memory.TurnBuffer
	persona    *persona.Persona
	cfg        Config
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewService creates the orchestrator. Nil optional deps (buffer, persona,
// logger) get sane defaults; the rest are required.
func NewService(deps Deps, cfg Config) *Service {
	if cfg.RetrievalLimit <= 0 {
		cfg.RetrievalLimit = memory.DefaultRetrievalLimit
	}
	if cfg.SimilarityThreshold == nil {
		v := memory.DefaultSimilarityThreshold
		cfg.SimilarityThreshold = &v
	}
	if cfg.SummaryLimit <= 0 {
		cfg.SummaryLimit = memory.DefaultSummaryLimit
	}
	if cfg.SummaryPolicy == "" {
		cfg.SummaryPolicy = SummaryAllow
	}
	if deps.Buffer == nil {
		deps.Buffer = memory.NewTurnBuffer(0)
	}
	if deps.Persona == nil {
		deps.Persona = persona.Default()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Service{
		provider:   deps.Provider,
		embedder:   deps.Embedder,
		history:    deps.History,
		summaries:  deps.Summaries,
		retriever:  deps.Retriever,
		summarizer: deps.Summarizer,
		buffer:     deps.Buffer,
		persona:    deps.Persona,
		cfg:        cfg,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// SendMessage handles one user turn end-to-end: context retrieval on the
// session's first message, the plan and answer LLM calls, persistence of
// both sides of the turn, and the buffer update. Side effects are strictly
// ordered (LLM calls, then durable writes, then the buffer) and the reply
// is returned only after all of them.
func (s *Service) SendMessage(ctx context.Context, userID, sessionID, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	log := s.logger.With("user_id", userID, "session_id", sessionID)

	// First message of the session: run retrieval once and pin the result.
	// Established sessions reuse the buffer and never re-run retrieval.
	if !st.started {
		st.context = renderContext(
			s.retriever.RetrieveRelevant(ctx, userID, text, s.cfg.RetrievalLimit, *s.cfg.SimilarityThreshold),
			s.retriever.RecentSummaries(ctx, userID, s.cfg.SummaryLimit),
		)
		st.started = true
		log.Info("session started", "context_len", len(st.context))
	}

	history := s.buffer.Lines(sessionID)

	// Plan call: internal reasoning, never shown to the user. A failure
	// here degrades the answer prompt, it does not abort the turn.
	var plan string
	planResp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: planPrompt(s.persona, st.context, history, text)}},
		Temperature: planTemperature,
		MaxTokens:   planMaxTokens,
	})
	if err != nil {
		log.Warn("plan call failed", "err", err)
	} else {
		plan = planResp.Content
	}

	// Answer call: the user-facing reply. When the provider is unreachable
	// the fixed apology stands in for the answer.
	answer := s.persona.Apology
	answerResp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: answerPrompt(s.persona, st.context, plan, history, text)}},
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		log.Warn("answer call failed, substituting apology", "err", err)
	} else if trimmed := strings.TrimSpace(answerResp.Content); trimmed != "" {
		answer = trimmed
	}

	// Persist both sides of the turn, each independently embedded. Write
	// failures are logged but never retract the answer already generated.
	now := s.now().UTC()
	s.persist(ctx, log, userID, sessionID, memory.Message{Role: memory.RoleUser, Content: text, Timestamp: now})
	s.persist(ctx, log, userID, sessionID, memory.Message{Role: memory.RoleCounselor, Content: answer, Timestamp: s.now().UTC()})

	s.buffer.Append(sessionID, "User: "+text, "Counselor: "+answer)

	return &Reply{
		Answer:      answer,
		SessionID:   sessionID,
		ContextUsed: st.context != "",
	}, nil
}

// EndSession closes a session: it summarises the durable record, embeds and
// stores the digest, and clears the in-memory state. The durable session
// record itself is retained. A session with zero stored messages yields a
// "nothing to summarize" result and no summary record.
func (s *Service) EndSession(ctx context.Context, userID, sessionID string) (*EndResult, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	log := s.logger.With("user_id", userID, "session_id", sessionID)

	rec, err := s.history.Session(ctx, userID, sessionID)
	if errors.Is(err, memory.ErrSessionNotFound) {
		return nil, ErrUnknownSession
	}
	if err != nil {
		return nil, fmt.Errorf("counselor: load session: %w", err)
	}

	if len(rec.Messages) == 0 {
		log.Info("end session: nothing to summarize")
		return &EndResult{NothingToSummarize: true}, nil
	}

	switch s.cfg.SummaryPolicy {
	case SummaryReject:
		exists, err := s.summaries.Exists(ctx, userID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("counselor: check existing summary: %w", err)
		}
		if exists {
			return nil, ErrDuplicateSummary
		}
	case SummaryOverwrite:
		if err := s.summaries.DeleteForSession(ctx, userID, sessionID); err != nil {
			log.Warn("failed to delete earlier summaries", "err", err)
		}
	}

	// Summarize never fails: upstream trouble yields the fixed fallback.
	summary := s.summarizer.Summarize(ctx, rec.Messages)

	embedding, err := s.embedder.Embed(ctx, summary)
	if err != nil {
		log.Warn("failed to embed summary", "err", err)
		embedding = nil
	}

	record := memory.SummaryRecord{
		UserID:       userID,
		SessionID:    sessionID,
		Summary:      summary,
		Embedding:    embedding,
		SessionDate:  s.now().UTC(),
		MessageCount: len(rec.Messages),
	}
	if err := s.summaries.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("counselor: store summary: %w", err)
	}

	s.buffer.Clear(sessionID)
	s.dropState(sessionID)

	log.Info("session ended",
		"message_count", record.MessageCount,
		"summary_len", len(summary),
	)

	return &EndResult{
		Summary:      summary,
		MessageCount: record.MessageCount,
	}, nil
}

// ResetSession discards a session's in-memory state, the turn buffer and
// the frozen context, leaving durable storage untouched. Calling it twice
// is a no-op the second time.
func (s *Service) ResetSession(sessionID string) {
	s.buffer.Clear(sessionID)
	s.dropState(sessionID)
	s.logger.Debug("session reset", "session_id", sessionID)
}

// persist embeds and stores one message. Embedding failure stores an empty
// vector (incomparable); storage failure is logged and swallowed.
func (s *Service) persist(ctx context.Context, log *slog.Logger, userID, sessionID string, msg memory.Message) {
	embedding, err := s.embedder.Embed(ctx, msg.Content)
	if err != nil {
		log.Warn("failed to embed message, storing without embedding",
			"role", msg.Role,
			"err", err,
		)
		embedding = nil
	}

	if err := s.history.Append(ctx, userID, sessionID, msg, embedding); err != nil {
		log.Warn("failed to persist message",
			"role", msg.Role,
			"err", err,
		)
	}
}

func (s *Service) state(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]*sessionState)
	}
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
	}
	return st
}

func (s *Service) dropState(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
