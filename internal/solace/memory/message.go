// Package memory implements the session-memory layer for Solace: per-session
// message history paired with vector embeddings, cosine-similarity retrieval
// of relevant past content, and compact session summaries that seed future
// context. Short-term recall lives in an in-process turn buffer; long-term
// recall lives in SQLite.
package memory

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleCounselor Role = "counselor"
)

// Message is a single turn in a counselling session. Immutable once stored.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionRecord is the durable history of one session. Messages and
// Embeddings are parallel slices: Embeddings[i] is the vector for
// Messages[i]. An empty vector marks a message whose embedding could not be
// produced; such messages are skipped during similarity search.
type SessionRecord struct {
	UserID      string
	SessionID   string
	Messages    []Message
	Embeddings  [][]float32
	LastUpdated time.Time
}

// SummaryRecord is a compact digest of a closed session, embedded so it can
// participate in similarity search. Immutable once created.
type SummaryRecord struct {
	UserID       string
	SessionID    string
	Summary      string
	Embedding    []float32
	SessionDate  time.Time
	MessageCount int
}

// RelevantMessage is one similarity-search hit: a stored message together
// with its cosine similarity to the query and the session it came from.
type RelevantMessage struct {
	Message    Message
	Similarity float64
	SessionID  string
}
