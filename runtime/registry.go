// Package runtime is the concurrency core of the chat: the peer registry
// and the session loop that multiplexes local input and network events.
package runtime

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"subnet-vox/domain"
)

// Registry tracks which senders have been seen recently. It is advisory:
// it backs presence display (/users) and the self-echo check, and never
// participates in message delivery.
type Registry struct {
	mu    sync.RWMutex
	self  domain.Identity
	peers map[uuid.UUID]domain.PeerEntry
}

func NewRegistry(self domain.Identity) *Registry {
	return &Registry{
		self:  self,
		peers: make(map[uuid.UUID]domain.PeerEntry),
	}
}

// Observe inserts or updates the entry for sender, last-write-wins on the
// username. LastSeen only moves forward. Reports whether the sender was
// seen for the first time.
func (r *Registry) Observe(sender uuid.UUID, username string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.peers[sender]
	if !ok {
		r.peers[sender] = domain.PeerEntry{Sender: sender, Username: username, LastSeen: now}
		return true
	}

	entry.Username = username
	if now.After(entry.LastSeen) {
		entry.LastSeen = now
	}
	r.peers[sender] = entry
	return false
}

// IsSelf reports whether sender is this session's own identity. This is
// how the session loop recognizes the multicast loopback echo of its own
// outgoing messages.
func (r *Registry) IsSelf(sender uuid.UUID) bool {
	return sender == r.self.ID
}

// Snapshot returns the known peers sorted by username.
func (r *Registry) Snapshot() []domain.PeerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := lo.MapToSlice(r.peers, func(_ uuid.UUID, e domain.PeerEntry) domain.PeerEntry {
		return e
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Username < entries[j].Username })
	return entries
}

// Prune drops entries silent for longer than maxAge. Advisory only: a
// pruned peer reappears on its next message.
func (r *Registry) Prune(maxAge time.Duration, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.peers)
	r.peers = lo.PickBy(r.peers, func(_ uuid.UUID, e domain.PeerEntry) bool {
		return now.Sub(e.LastSeen) <= maxAge
	})
	return before - len(r.peers)
}
