package memory

import (
	"context"

	"github.com/solace-ai/solace/common/retry"
)

// RetryingEmbedder wraps an Embedder with an exponential-backoff retry
// policy. The core Embedder contract stays single-attempt; resilience is
// layered on at the wiring boundary by choosing this decorator.
type RetryingEmbedder struct {
	Embedder Embedder
	Config   retry.Config
}

// Embed calls the wrapped embedder, retrying per the configured policy.
func (r *RetryingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := retry.Do(ctx, r.Config, func() error {
		var embedErr error
		vec, embedErr = r.Embedder.Embed(ctx, text)
		return embedErr
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

var _ Embedder = (*RetryingEmbedder)(nil)
