// Package httpapi exposes the counselling service over HTTP. The transport
// is deliberately thin: request decoding, error mapping, and health/status
// endpoints. All conversation semantics live in the counselor package.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/solace-ai/solace/common/version"
	"github.com/solace-ai/solace/internal/solace/counselor"
)

// ChatService is the caller-facing surface of the orchestrator.
type ChatService interface {
	SendMessage(ctx context.Context, userID, sessionID, text string) (*counselor.Reply, error)
	EndSession(ctx context.Context, userID, sessionID string) (*counselor.EndResult, error)
	ResetSession(sessionID string)
}

// statusProvider is the minimal interface the status endpoint needs from
// the history store.
type statusProvider interface {
	SessionCount(ctx context.Context) (int, error)
}

// Server is the HTTP transport.
type Server struct {
	echo      *echo.Echo
	svc       ChatService
	status    statusProvider
	logger    *slog.Logger
	startedAt time.Time
}

// NewServer creates the HTTP server and registers routes. If logger is nil,
// the default slog logger is used.
func NewServer(svc ChatService, status statusProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		svc:       svc,
		status:    status,
		logger:    logger,
		startedAt: time.Now(),
	}

	e.POST("/api/chat", s.handleChat)
	e.POST("/api/session/end", s.handleEndSession)
	e.POST("/api/session/reset", s.handleReset)
	e.GET("/health", s.handleHealth)
	e.GET("/status", s.handleStatus)

	return s
}

// --- request/response types ---

type chatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Response    string `json:"response"`
	SessionID   string `json:"session_id"`
	ContextUsed bool   `json:"context_used"`
}

type endSessionRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type endSessionResponse struct {
	Summary      string `json:"summary"`
	MessageCount int    `json:"message_count"`
	Message      string `json:"message,omitempty"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "user_id is required"})
	}

	reply, err := s.svc.SendMessage(c.Request().Context(), req.UserID, req.SessionID, req.Message)
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(http.StatusOK, chatResponse{
		Response:    reply.Answer,
		SessionID:   reply.SessionID,
		ContextUsed: reply.ContextUsed,
	})
}

func (s *Server) handleEndSession(c echo.Context) error {
	var req endSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.UserID == "" || req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "user_id and session_id are required"})
	}

	result, err := s.svc.EndSession(c.Request().Context(), req.UserID, req.SessionID)
	if err != nil {
		return s.mapError(c, err)
	}

	resp := endSessionResponse{
		Summary:      result.Summary,
		MessageCount: result.MessageCount,
	}
	if result.NothingToSummarize {
		resp.Message = "nothing to summarize"
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "session_id is required"})
	}

	s.svc.ResetSession(req.SessionID)
	return c.JSON(http.StatusOK, map[string]string{"message": "session reset"})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.GitCommit,
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	sessions := 0
	if s.status != nil {
		n, err := s.status.SessionCount(c.Request().Context())
		if err != nil {
			s.logger.Warn("status: session count failed", "err", err)
		} else {
			sessions = n
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        version.Version,
		"commit":         version.GitCommit,
		"build_time":     version.BuildTime,
		"started_at":     s.startedAt,
		"uptime_seconds": time.Since(s.startedAt).Seconds(),
		"session_count":  sessions,
	})
}

// mapError converts service errors into the HTTP error taxonomy: rejected
// inputs are 4xx with a descriptive reason, everything unexpected is a
// generic 500 that leaks no internal state.
func (s *Server) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, counselor.ErrEmptyMessage):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "no message provided"})
	case errors.Is(err, counselor.ErrUnknownSession):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown session"})
	case errors.Is(err, counselor.ErrDuplicateSummary):
		return c.JSON(http.StatusConflict, errorResponse{Error: "session already summarized"})
	default:
		s.logger.Error("request failed", "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// Handler returns the underlying http.Handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins listening on addr. Blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
