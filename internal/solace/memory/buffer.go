package memory

import "sync"

// DefaultBufferWindow is the rolling-window size of the turn buffer, in
// lines. Ten exchanges (user + counselor) keeps prompts bounded.
const DefaultBufferWindow = 20

// TurnBuffer holds the most recent formatted turn lines per session. It is
// a process-local cache, not the source of truth: the durable session
// record already has every message, so trimmed lines need no archival and
// the buffer is simply lost on restart.
//
// Lifecycle: created empty on a session's first turn, cleared on end or
// reset, never persisted. Injected into the orchestrator rather than held
// as package state so tests get a fresh buffer each.
type TurnBuffer struct {
	mu     sync.Mutex
	window int
	lines  map[string][]string // key: session id
}

// NewTurnBuffer creates a TurnBuffer keeping at most window lines per
// session. A non-positive window falls back to DefaultBufferWindow.
func NewTurnBuffer(window int) *TurnBuffer {
	if window <= 0 {
		window = DefaultBufferWindow
	}
	return &TurnBuffer{
		window: window,
		lines:  make(map[string][]string),
	}
}

// Append adds lines to the session's buffer, oldest-first order preserved,
// then trims to the most recent window lines.
func (b *TurnBuffer) Append(sessionID string, lines ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := append(b.lines[sessionID], lines...)
	if len(buf) > b.window {
		buf = buf[len(buf)-b.window:]
	}
	b.lines[sessionID] = buf
}

// Lines returns a copy of the session's buffered lines, oldest first.
// Returns nil for an unknown session.
func (b *TurnBuffer) Lines(sessionID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := b.lines[sessionID]
	if len(buf) == 0 {
		return nil
	}
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Clear drops the session's buffer. Clearing an unknown session is a no-op,
// so repeated resets are idempotent.
func (b *TurnBuffer) Clear(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.lines, sessionID)
}

// Len returns the number of buffered lines for a session.
func (b *TurnBuffer) Len(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines[sessionID])
}
