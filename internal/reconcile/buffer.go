// Package reconcile implements the client-side buffer that matches
// optimistically rendered messages against their server-confirmed echo.
// Matching prefers the correlation id the server echoes back; a content
// match is kept only as a fallback for older servers.
package reconcile

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"opsdash/backend/internal/models"
)

// PendingMessage is one optimistic message awaiting its server echo.
type PendingMessage struct {
	CorrelationID  string
	RoomID         string
	Content        string
	LocalTimestamp time.Time
}

// Buffer holds pending optimistic messages for a single connection owner.
// Safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	senderID string
	wait     time.Duration
	pending  map[string]PendingMessage // correlation id -> entry
}

// NewBuffer creates a buffer for senderID. wait bounds how long a pending
// marker survives without an echo before Sweep drops it.
func NewBuffer(senderID string, wait time.Duration) *Buffer {
	return &Buffer{
		senderID: senderID,
		wait:     wait,
		pending:  make(map[string]PendingMessage),
	}
}

// Add registers an optimistic message and returns it with a fresh
// correlation id. The caller renders it immediately with a "sending" flag.
func (b *Buffer) Add(roomID, content string) PendingMessage {
	p := PendingMessage{
		CorrelationID:  uuid.New().String(),
		RoomID:         roomID,
		Content:        content,
		LocalTimestamp: time.Now(),
	}
	b.mu.Lock()
	b.pending[p.CorrelationID] = p
	b.mu.Unlock()
	return p
}

// Confirm tries to match a server-confirmed message against the pending
// set. It returns the cleared entry and true on a match. Correlation id
// wins outright; otherwise the oldest entry with matching room, sender, and
// normalized content is taken, so duplicate identical sends clear one
// marker per echo.
func (b *Buffer) Confirm(echo models.EnrichedMessage) (PendingMessage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if echo.CorrelationID != "" {
		if p, ok := b.pending[echo.CorrelationID]; ok {
			delete(b.pending, echo.CorrelationID)
			return p, true
		}
	}

	if echo.SenderID != b.senderID {
		return PendingMessage{}, false
	}
	want := normalize(echo.Content)
	var best PendingMessage
	found := false
	for _, p := range b.pending {
		if p.RoomID != echo.RoomID || normalize(p.Content) != want {
			continue
		}
		if !found || p.LocalTimestamp.Before(best.LocalTimestamp) {
			best = p
			found = true
		}
	}
	if found {
		delete(b.pending, best.CorrelationID)
	}
	return best, found
}

// Sweep drops pending markers older than the wait window and returns them.
// The optimistic message stays visible in the timeline, merely no longer
// flagged as "sending". Typed content is never retracted.
func (b *Buffer) Sweep(now time.Time) []PendingMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	var dropped []PendingMessage
	for id, p := range b.pending {
		if now.Sub(p.LocalTimestamp) >= b.wait {
			dropped = append(dropped, p)
			delete(b.pending, id)
		}
	}
	return dropped
}

// Len reports the number of messages still awaiting confirmation.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
