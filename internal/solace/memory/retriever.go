package memory

import (
	"context"
	"log/slog"
	"sort"
)

// Retrieval defaults, matching the behaviour callers tune against.
const (
	DefaultRetrievalLimit      = 5
	DefaultSimilarityThreshold = 0.7
	DefaultSummaryLimit        = 3
)

// Retriever answers "what past content is relevant to this new message?" by
// embedding the query and brute-force scanning every stored embedding for
// the user. It is pure read-side: it never mutates storage, and every
// failure degrades to an empty result rather than aborting the caller's
// turn.
//
// The scan has no index beyond user_id. At counselling scale (hundreds of
// messages per user) that is fast enough; anyone scaling this wants a real
// vector index.
type Retriever struct {
	Embedder  Embedder
	History   HistoryStore
	Summaries SummaryStore
	Logger    *slog.Logger
}

// NewRetriever creates a Retriever. If logger is nil, the default slog
// logger is used.
func NewRetriever(embedder Embedder, history HistoryStore, summaries SummaryStore, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		Embedder:  embedder,
		History:   history,
		Summaries: summaries,
		Logger:    logger,
	}
}

// RetrieveRelevant returns the user's stored messages most similar to query,
// ordered by similarity descending and truncated to limit. Only messages
// with similarity >= threshold are returned. Ties keep encounter order
// (session scan order, then message order).
//
// When the query cannot be embedded (provider failure or noop embedder) the
// result is empty. Fail-soft, not fail-fatal.
func (r *Retriever) RetrieveRelevant(ctx context.Context, userID, query string, limit int, threshold float64) []RelevantMessage {
	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}

	queryVec, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		r.Logger.Warn("retriever: failed to embed query",
			"user_id", userID,
			"err", err,
		)
		return nil
	}
	if len(queryVec) == 0 {
		return nil
	}

	records, err := r.History.Sessions(ctx, userID)
	if err != nil {
		r.Logger.Warn("retriever: failed to load session records",
			"user_id", userID,
			"err", err,
		)
		return nil
	}

	var relevant []RelevantMessage
	for _, rec := range records {
		n := len(rec.Messages)
		if len(rec.Embeddings) < n {
			// Should not happen given the append invariant; tolerate
			// truncated rows rather than panicking on legacy data.
			n = len(rec.Embeddings)
		}
		for i := 0; i < n; i++ {
			if len(rec.Embeddings[i]) == 0 {
				continue
			}
			sim := CosineSimilarity(queryVec, rec.Embeddings[i])
			if sim >= threshold {
				relevant = append(relevant, RelevantMessage{
					Message:    rec.Messages[i],
					Similarity: sim,
					SessionID:  rec.SessionID,
				})
			}
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Similarity > relevant[j].Similarity
	})

	if len(relevant) > limit {
		relevant = relevant[:limit]
	}

	r.Logger.Debug("retriever: similarity search complete",
		"user_id", userID,
		"hits", len(relevant),
		"threshold", threshold,
	)

	return relevant
}

// RecentSummaries returns the user's most recent session digests, newest
// first, truncated to limit. Storage failures degrade to an empty result.
func (r *Retriever) RecentSummaries(ctx context.Context, userID string, limit int) []SummaryRecord {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	records, err := r.Summaries.Recent(ctx, userID, limit)
	if err != nil {
		r.Logger.Warn("retriever: failed to load recent summaries",
			"user_id", userID,
			"err", err,
		)
		return nil
	}
	return records
}
