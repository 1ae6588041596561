package memory

import "context"

// Embedder produces vector embeddings for text. Implementations range from
// a no-op stub to an OpenAI-compatible embeddings API for production use.
//
// Callers must treat a nil/empty vector (or an error) as "no embedding
// available" and skip similarity comparisons involving it. Emptiness means
// incomparable, which is distinct from a legitimate all-zero vector.
type Embedder interface {
	// Embed produces a vector embedding for the given text.
	// Returns nil with no error when embedding is not available (noop).
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Summarizer produces concise natural-language digests of session
// transcripts. Summaries are embedded and stored by the caller; the
// summarizer itself never persists anything.
//
// Summarize always returns usable text: on any upstream failure it returns
// a fixed fallback string instead of propagating the error, so ending a
// session never fails because the summary could not be generated.
type Summarizer interface {
	Summarize(ctx context.Context, messages []Message) string
}
