package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SQLiteSummaryStore implements SummaryStore on SQLite. Each summary is one
// row; the embedding is a JSON-encoded float32 array, like the history
// store's. No uniqueness constraint exists on (user_id, session_id): a
// session closed twice yields two rows, and the duplicate policy is decided
// by the caller.
type SQLiteSummaryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteSummaryStore creates a summary store backed by the given database
// connection. The caller must ensure the session_summaries table exists
// (created by migration 0001_sessions.sql). If logger is nil, the default
// slog logger is used.
func NewSQLiteSummaryStore(db *sql.DB, logger *slog.Logger) *SQLiteSummaryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteSummaryStore{db: db, logger: logger}
}

// Insert stores a new summary record.
func (s *SQLiteSummaryStore) Insert(ctx context.Context, rec SummaryRecord) error {
	var embeddingJSON []byte
	if len(rec.Embedding) > 0 {
		var err error
		embeddingJSON, err = json.Marshal(rec.Embedding)
		if err != nil {
			return fmt.Errorf("summary sqlite: marshal embedding: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_summaries
			(id, user_id, session_id, summary, embedding, session_date, message_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		rec.UserID,
		rec.SessionID,
		rec.Summary,
		embeddingJSON,
		rec.SessionDate.UTC().Format(time.RFC3339Nano),
		rec.MessageCount,
	)
	if err != nil {
		return fmt.Errorf("summary sqlite: insert summary: %w", err)
	}

	s.logger.Debug("summary sqlite: stored summary",
		"user_id", rec.UserID,
		"session_id", rec.SessionID,
		"summary_len", len(rec.Summary),
		"has_embedding", len(rec.Embedding) > 0,
		"message_count", rec.MessageCount,
	)

	return nil
}

// Recent returns the user's summaries, most recent session date first,
// truncated to limit.
func (s *SQLiteSummaryStore) Recent(ctx context.Context, userID string, limit int) ([]SummaryRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, session_id, summary, embedding, session_date, message_count
		 FROM session_summaries
		 WHERE user_id = ?
		 ORDER BY session_date DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("summary sqlite: query summaries: %w", err)
	}
	defer rows.Close()

	var records []SummaryRecord
	for rows.Next() {
		var (
			rec           SummaryRecord
			embeddingJSON sql.NullString
			dateStr       string
		)
		err := rows.Scan(&rec.UserID, &rec.SessionID, &rec.Summary, &embeddingJSON, &dateStr, &rec.MessageCount)
		if err != nil {
			s.logger.Warn("summary sqlite: skip malformed row", "err", err)
			continue
		}

		if embeddingJSON.Valid && embeddingJSON.String != "" {
			if err := json.Unmarshal([]byte(embeddingJSON.String), &rec.Embedding); err != nil {
				s.logger.Warn("summary sqlite: skip row with bad embedding", "err", err)
				continue
			}
		}

		t, err := time.Parse(time.RFC3339Nano, dateStr)
		if err != nil {
			s.logger.Warn("summary sqlite: skip row with bad session_date", "err", err)
			continue
		}
		rec.SessionDate = t

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary sqlite: iterate rows: %w", err)
	}

	return records, nil
}

// Exists reports whether any summary exists for (user, session).
func (s *SQLiteSummaryStore) Exists(ctx context.Context, userID, sessionID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_summaries WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("summary sqlite: count summaries: %w", err)
	}
	return n > 0, nil
}

// DeleteForSession removes all summaries for (user, session).
func (s *SQLiteSummaryStore) DeleteForSession(ctx context.Context, userID, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_summaries WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("summary sqlite: delete summaries: %w", err)
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ SummaryStore = (*SQLiteSummaryStore)(nil)
