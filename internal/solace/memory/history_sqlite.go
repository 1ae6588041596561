package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// SQLiteHistoryStore implements HistoryStore on SQLite. Messages and
// embeddings are stored as parallel JSON-encoded arrays in one row per
// (user, session), mirroring the append-to-array-field update semantics of
// a document store. The append runs in a transaction so the pair invariant
// len(messages) == len(embeddings) holds even across concurrent writers.
type SQLiteHistoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteHistoryStore creates a history store backed by the given database
// connection. The caller must ensure the sessions table exists (created by
// migration 0001_sessions.sql). If logger is nil, the default slog logger
// is used.
func NewSQLiteHistoryStore(db *sql.DB, logger *slog.Logger) *SQLiteHistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteHistoryStore{db: db, logger: logger}
}

// Append adds a message and its embedding to the session record, creating
// the record on first use. The whole read-modify-write runs in one
// transaction.
func (s *SQLiteHistoryStore) Append(ctx context.Context, userID, sessionID string, msg Message, embedding []float32) error {
	if embedding == nil {
		embedding = []float32{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history sqlite: begin tx: %w", err)
	}
	defer tx.Rollback()

	var messagesJSON, embeddingsJSON string
	err = tx.QueryRowContext(ctx,
		`SELECT messages, embeddings FROM sessions WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	).Scan(&messagesJSON, &embeddingsJSON)

	now := time.Now().UTC()

	switch {
	case err == sql.ErrNoRows:
		messages := []Message{msg}
		embeddings := [][]float32{embedding}

		mj, ej, encErr := encodeArrays(messages, embeddings)
		if encErr != nil {
			return encErr
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO sessions (user_id, session_id, messages, embeddings, last_updated)
			 VALUES (?, ?, ?, ?, ?)`,
			userID, sessionID, mj, ej, now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("history sqlite: insert session: %w", err)
		}

	case err != nil:
		return fmt.Errorf("history sqlite: select session: %w", err)

	default:
		var messages []Message
		var embeddings [][]float32
		if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
			return fmt.Errorf("history sqlite: unmarshal messages: %w", err)
		}
		if err := json.Unmarshal([]byte(embeddingsJSON), &embeddings); err != nil {
			return fmt.Errorf("history sqlite: unmarshal embeddings: %w", err)
		}

		messages = append(messages, msg)
		embeddings = append(embeddings, embedding)

		mj, ej, encErr := encodeArrays(messages, embeddings)
		if encErr != nil {
			return encErr
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE sessions SET messages = ?, embeddings = ?, last_updated = ?
			 WHERE user_id = ? AND session_id = ?`,
			mj, ej, now.Format(time.RFC3339Nano), userID, sessionID,
		)
		if err != nil {
			return fmt.Errorf("history sqlite: update session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history sqlite: commit: %w", err)
	}

	s.logger.Debug("history sqlite: appended message",
		"user_id", userID,
		"session_id", sessionID,
		"role", msg.Role,
		"content_len", len(msg.Content),
		"has_embedding", len(embedding) > 0,
	)

	return nil
}

// Session returns the record for (user, session), or ErrSessionNotFound.
func (s *SQLiteHistoryStore) Session(ctx context.Context, userID, sessionID string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, session_id, messages, embeddings, last_updated
		 FROM sessions WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	)

	rec, err := scanSessionRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history sqlite: select session: %w", err)
	}
	return rec, nil
}

// Sessions returns all session records for a user, oldest update first.
func (s *SQLiteHistoryStore) Sessions(ctx context.Context, userID string) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, session_id, messages, embeddings, last_updated
		 FROM sessions WHERE user_id = ? ORDER BY last_updated ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("history sqlite: query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSessionRow(rows)
		if err != nil {
			s.logger.Warn("history sqlite: skip malformed row", "err", err)
			continue
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history sqlite: iterate rows: %w", err)
	}

	return records, nil
}

// SessionCount returns the number of session records. Used by /status.
func (s *SQLiteHistoryStore) SessionCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("history sqlite: count sessions: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionRow(row rowScanner) (*SessionRecord, error) {
	var (
		rec            SessionRecord
		messagesJSON   string
		embeddingsJSON string
		updatedStr     string
	)

	err := row.Scan(&rec.UserID, &rec.SessionID, &messagesJSON, &embeddingsJSON, &updatedStr)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(messagesJSON), &rec.Messages); err != nil {
		return nil, fmt.Errorf("unmarshal messages: %w", err)
	}
	if err := json.Unmarshal([]byte(embeddingsJSON), &rec.Embeddings); err != nil {
		return nil, fmt.Errorf("unmarshal embeddings: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("parse last_updated: %w", err)
	}
	rec.LastUpdated = t

	return &rec, nil
}

func encodeArrays(messages []Message, embeddings [][]float32) (string, string, error) {
	mj, err := json.Marshal(messages)
	if err != nil {
		return "", "", fmt.Errorf("history sqlite: marshal messages: %w", err)
	}
	ej, err := json.Marshal(embeddings)
	if err != nil {
		return "", "", fmt.Errorf("history sqlite: marshal embeddings: %w", err)
	}
	return string(mj), string(ej), nil
}

// Compile-time interface satisfaction check.
var _ HistoryStore = (*SQLiteHistoryStore)(nil)
