package memory

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when no durable record exists for the
// requested (user, session) pair.
var ErrSessionNotFound = errors.New("memory: session not found")

// HistoryStore persists per-session ordered message lists, each paired with
// its embedding, keyed by (user, session). Records are created lazily on the
// first append, are append-only while a session is active, and are never
// deleted automatically; closing a session triggers summarisation, not
// deletion.
type HistoryStore interface {
	// Append adds one message and its embedding to the session record,
	// creating the record if it does not exist. The message/embedding pair
	// is appended atomically: either both land or neither does. Pass an
	// empty embedding when none could be produced.
	Append(ctx context.Context, userID, sessionID string, msg Message, embedding []float32) error

	// Session returns the record for (user, session), or ErrSessionNotFound.
	Session(ctx context.Context, userID, sessionID string) (*SessionRecord, error)

	// Sessions returns all session records for a user. Similarity retrieval
	// scans these in full; there is no index beyond user_id.
	Sessions(ctx context.Context, userID string) ([]SessionRecord, error)
}

// SummaryStore persists per-session summaries with their own embedding.
// Multiple summaries may exist for one session id (a session closed more
// than once); duplicate handling is the caller's policy, supported by
// Exists and DeleteForSession.
type SummaryStore interface {
	// Insert stores a new summary record. Never overwrites.
	Insert(ctx context.Context, rec SummaryRecord) error

	// Recent returns the user's summaries sorted by session date descending,
	// most recent first, truncated to limit.
	Recent(ctx context.Context, userID string, limit int) ([]SummaryRecord, error)

	// Exists reports whether any summary exists for (user, session).
	Exists(ctx context.Context, userID, sessionID string) (bool, error)

	// DeleteForSession removes all summaries for (user, session). Used by
	// the overwrite duplicate policy.
	DeleteForSession(ctx context.Context, userID, sessionID string) error
}
