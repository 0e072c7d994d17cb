// Package domain contains core concepts of the chat system.
// This file defines Message values and the size rules that keep an
// encoded message inside a single safe-MTU datagram.
// Messages are immutable and validated by the domain.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"subnet-vox/errors"
)

const (
	// MaxPayloadBytes caps a whole encoded frame so that one message always
	// fits in a single datagram on a conservative multicast path MTU.
	MaxPayloadBytes = 1400

	MaxUsernameBytes = 64
	MaxBodyBytes     = 1024
)

// Message represents one immutable chat event, either typed locally or
// reconstructed from network bytes.
type Message struct {
	Sender   uuid.UUID
	Username string
	SentAt   time.Time
	Body     string
}

// NewMessage builds a message from the local identity. Oversized or empty
// bodies are rejected, never truncated.
func NewMessage(id Identity, sentAt time.Time, body string) (Message, error) {
	if body == "" {
		return Message{}, errors.ErrEmptyBody
	}
	if len(body) > MaxBodyBytes {
		return Message{}, fmt.Errorf("%w: %d bytes (max %d)", errors.ErrBodyTooLong, len(body), MaxBodyBytes)
	}
	return Message{
		Sender:   id.ID,
		Username: id.Username,
		SentAt:   sentAt,
		Body:     body,
	}, nil
}
