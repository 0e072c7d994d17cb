package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"subnet-vox/errors"
)

// Identity is the per-process sender identity: a random ID generated once
// at startup plus the display name chosen by the user. It is constructed
// once and passed explicitly to every component that needs it.
type Identity struct {
	ID       uuid.UUID
	Username string
}

func NewIdentity(username string) (Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Identity{}, errors.ErrEmptyUsername
	}
	if len(username) > MaxUsernameBytes {
		return Identity{}, fmt.Errorf("%w: %d bytes (max %d)", errors.ErrUsernameTooLong, len(username), MaxUsernameBytes)
	}
	return Identity{ID: uuid.New(), Username: username}, nil
}
