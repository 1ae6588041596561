package llm

import (
	"context"
	"sync"
)

// StaticProvider returns a fixed reply (or error) for every completion and
// records every request it receives. Intended for tests; production keyless
// wiring uses Unavailable instead, which records nothing.
type StaticProvider struct {
	// Reply is returned as the completion content.
	Reply string
	// Err, when non-nil, is returned instead of a completion.
	Err error

	mu sync.Mutex
	// Requests records every request received, in order. Tests inspect this
	// to assert on prompt construction and call counts.
	Requests []CompletionRequest
}

// Complete records the request and returns the configured reply or error.
// Safe for concurrent use.
func (s *StaticProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return &CompletionResponse{
		Content:      s.Reply,
		FinishReason: "stop",
	}, nil
}

// RequestCount returns how many requests the provider has received.
func (s *StaticProvider) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// Unavailable returns a Provider that fails every completion with err. It
// holds no state, so it is safe to share across any number of concurrent
// sessions.
func Unavailable(err error) Provider {
	return unavailableProvider{err: err}
}

type unavailableProvider struct{ err error }

func (p unavailableProvider) Complete(context.Context, CompletionRequest) (*CompletionResponse, error) {
	return nil, p.err
}

var (
	_ Provider = (*StaticProvider)(nil)
	_ Provider = unavailableProvider{}
)
