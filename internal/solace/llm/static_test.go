package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestStaticProvider_ConcurrentComplete(t *testing.T) {
	p := &StaticProvider{Reply: "ok"}

	const callers = 32
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if _, err := p.Complete(context.Background(), CompletionRequest{
				Messages: []Message{{Role: RoleUser, Content: "hello"}},
			}); err != nil {
				t.Errorf("Complete() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := p.RequestCount(); got != callers {
		t.Fatalf("expected %d recorded requests, got %d", callers, got)
	}
}

func TestUnavailable(t *testing.T) {
	sentinel := errors.New("no API key configured")
	p := Unavailable(sentinel)

	for i := 0; i < 3; i++ {
		_, err := p.Complete(context.Background(), CompletionRequest{
			Messages: []Message{{Role: RoleUser, Content: "hello"}},
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected the configured error, got %v", err)
		}
	}
}
