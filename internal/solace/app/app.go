// Package app wires the Solace application together: storage, providers,
// the session-memory layer, the counselor orchestrator, and the HTTP
// surface.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solace-ai/solace/common/retry"
	"github.com/solace-ai/solace/internal/solace/config"
	"github.com/solace-ai/solace/internal/solace/counselor"
	"github.com/solace-ai/solace/internal/solace/httpapi"
	"github.com/solace-ai/solace/internal/solace/llm"
	"github.com/solace-ai/solace/internal/solace/memory"
	"github.com/solace-ai/solace/internal/solace/persona"
	"github.com/solace-ai/solace/internal/solace/store"
	"github.com/solace-ai/solace/internal/solace/users"
)

// App is the assembled application.
type App struct {
	cfg    *config.Config
	store  *store.Store
	server *httpapi.Server
	logger *slog.Logger

	// Users is the directory collaborator, exposed for auth layers that
	// sit in front of this service.
	Users *users.Directory
}

// New constructs the application from configuration.
func New(cfg *config.Config) (*App, error) {
	logger := slog.Default()

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}

	// Persona: built-in counselor pack unless a file overrides it.
	p := persona.Default()
	if cfg.PersonaPath != "" {
		p, err = persona.Load(cfg.PersonaPath)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("app: load persona: %w", err)
		}
		logger.Info("loaded persona pack", "name", p.Name, "path", cfg.PersonaPath)
	}

	// Chat provider. Without a key the service still comes up and answers
	// with the persona's apology text.
	var provider llm.Provider
	if cfg.LLM.APIKey != "" {
		provider = llm.NewOpenAI(llm.OpenAIConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLMTimeout(),
		})
	} else {
		logger.Warn("no LLM API key configured, replies will use the apology fallback")
		provider = llm.Unavailable(fmt.Errorf("llm: no API key configured"))
	}

	// Embedder: noop without a key (messages stored without vectors,
	// retrieval disabled). Retries wrap the embedder only when asked for.
	var embedder memory.Embedder = memory.NoopEmbedder{}
	if cfg.Embedding.APIKey != "" {
		embedder = memory.NewOpenAIEmbedder(memory.OpenAIEmbedderConfig{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if cfg.Embedding.Retries > 1 {
			embedder = &memory.RetryingEmbedder{
				Embedder: embedder,
				Config:   retry.Config{MaxAttempts: cfg.Embedding.Retries, InitialDelay: 500 * time.Millisecond},
			}
		}
	} else {
		logger.Warn("no embedding API key configured, similarity retrieval disabled")
	}

	history := memory.NewSQLiteHistoryStore(st.DB(), logger)
	summaries := memory.NewSQLiteSummaryStore(st.DB(), logger)
	retriever := memory.NewRetriever(embedder, history, summaries, logger)
	summarizer := memory.NewLLMSummarizer(provider, memory.LLMSummarizerConfig{
		Model:         cfg.LLM.Model,
		Fallback:      p.SummaryFallback,
		BriefFallback: p.BriefSummaryFallback,
	}, logger)
	buffer := memory.NewTurnBuffer(cfg.BufferWindow)

	svc := counselor.NewService(counselor.Deps{
		Provider:   provider,
		Embedder:   embedder,
		History:    history,
		Summaries:  summaries,
		Retriever:  retriever,
		Summarizer: summarizer,
		Buffer:     buffer,
		Persona:    p,
		Logger:     logger,
	}, counselor.Config{
		Model:               cfg.LLM.Model,
		RetrievalLimit:      cfg.Retrieval.Limit,
		SimilarityThreshold: &cfg.Retrieval.Threshold,
		SummaryLimit:        cfg.Retrieval.SummaryLimit,
		SummaryPolicy:       counselor.SummaryPolicy(cfg.SummaryPolicy),
	})

	server := httpapi.NewServer(svc, history, logger)

	return &App{
		cfg:    cfg,
		store:  st,
		server: server,
		logger: logger,
		Users:  users.NewDirectory(st.DB()),
	}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(a.cfg.Addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("app: http server: %w", err)
	case sig := <-sigCh:
		a.logger.Info("shutting down", "signal", sig.String())
		return nil
	}
}

// Stop shuts the application down cleanly.
func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("http server shutdown error", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close error", "err", err)
	}
}
