// Package event defines the display events the networking core hands to
// its sinks. Sinks are pure consumers: they render events and never call
// back into the core.
package event

import (
	"time"

	"subnet-vox/domain"
)

type DisplayEvent interface {
	When() time.Time
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// PeerMessage carries one decoded message from a remote participant,
// ready to render. Self-echoes are filtered before this event is emitted.
type PeerMessage struct {
	Message  domain.Message
	Received time.Time
}

func (e PeerMessage) When() time.Time { return e.Received }

// StatusLine is a locally originated line interleaved with chat history:
// transient errors, peer arrivals, command output.
type StatusLine struct {
	Level Level
	Text  string
	At    time.Time
}

func (e StatusLine) When() time.Time { return e.At }

// PeerList is the answer to /users: an advisory snapshot of recently seen
// participants.
type PeerList struct {
	Peers []domain.PeerEntry
	At    time.Time
}

func (e PeerList) When() time.Time { return e.At }

// ClearScreen asks the display to drop its scrollback (/clear).
type ClearScreen struct {
	At time.Time
}

func (e ClearScreen) When() time.Time { return e.At }
