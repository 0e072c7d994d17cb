// Package projection builds the local scrollback from observed display
// events. It does not emit events or talk back to the networking core.
package projection

import (
	"context"
	"sync"

	"subnet-vox/domain"
	"subnet-vox/domain/event"
)

// Timeline keeps a bounded scrollback of rendered peer messages. It backs
// nothing durable: the bound exists only so an all-day session does not
// grow without limit.
type Timeline struct {
	mu       sync.Mutex
	limit    int
	messages []domain.Message
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{limit: limit}
}

func (t *Timeline) Consume(_ context.Context, e event.DisplayEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.PeerMessage:
		t.messages = append(t.messages, evt.Message)
		if len(t.messages) > t.limit {
			t.messages = t.messages[len(t.messages)-t.limit:]
		}
	case event.ClearScreen:
		t.messages = nil
	}
	return nil
}

// Messages returns a copy of the current scrollback, oldest first.
func (t *Timeline) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Message(nil), t.messages...)
}
