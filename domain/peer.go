package domain

import (
	"time"

	"github.com/google/uuid"
)

// PeerEntry is the liveness record for one remote participant. At most one
// entry exists per sender ID; LastSeen only moves forward.
type PeerEntry struct {
	Sender   uuid.UUID
	Username string
	LastSeen time.Time
}
