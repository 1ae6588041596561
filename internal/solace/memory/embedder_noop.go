package memory

import "context"

// NoopEmbedder is the default embedder when no embeddings API key is
// configured. It returns nil vectors, which disables similarity retrieval:
// messages are still stored, just with empty embeddings, so the deployment
// can be upgraded to a real embedder later without a migration.
type NoopEmbedder struct{}

// Embed returns nil, nil: embedding not available.
func (NoopEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, nil
}

var _ Embedder = NoopEmbedder{}
