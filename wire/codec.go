// Package wire converts messages to and from their datagram payload.
//
// The frame is binary, explicit-length, and self-delimiting:
//
//	version(1) | sender(16) | sentAt unix-ms (8, big-endian)
//	| usernameLen(1) | username | bodyLen(2, big-endian) | body
//
// UDP preserves the overall datagram boundary, but field boundaries are
// still carried explicitly so a username or body can contain anything.
// Decoding fails closed: a malformed payload yields a DecodeError, never
// a partial message.
package wire

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"subnet-vox/domain"
	"subnet-vox/errors"
)

const (
	frameVersion = 0x01

	// version + sender + sentAt + usernameLen ... bodyLen, with both
	// variable fields empty.
	minFrameBytes = 1 + 16 + 8 + 1 + 2
)

// DecodeError reports a payload that could not be turned into a message.
// It wraps one of the sentinel errors in subnet-vox/errors.
type DecodeError struct {
	Reason error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frame: %v", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Reason }

func decodeErr(reason error) (domain.Message, error) {
	return domain.Message{}, &DecodeError{Reason: reason}
}

// Encode renders m as one datagram payload. Field size violations are
// caller errors and are rejected, never truncated.
func Encode(m domain.Message) ([]byte, error) {
	uLen, bLen := len(m.Username), len(m.Body)
	switch {
	case uLen == 0:
		return nil, errors.ErrEmptyUsername
	case uLen > domain.MaxUsernameBytes:
		return nil, fmt.Errorf("%w: %d bytes (max %d)", errors.ErrUsernameTooLong, uLen, domain.MaxUsernameBytes)
	case bLen == 0:
		return nil, errors.ErrEmptyBody
	case bLen > domain.MaxBodyBytes:
		return nil, fmt.Errorf("%w: %d bytes (max %d)", errors.ErrBodyTooLong, bLen, domain.MaxBodyBytes)
	case !utf8.ValidString(m.Username) || !utf8.ValidString(m.Body):
		return nil, errors.ErrInvalidText
	}

	total := minFrameBytes + uLen + bLen
	if total > domain.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", errors.ErrFrameTooLong, total, domain.MaxPayloadBytes)
	}

	buf := make([]byte, 0, total)
	buf = append(buf, frameVersion)
	buf = append(buf, m.Sender[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.SentAt.UnixMilli()))
	buf = append(buf, byte(uLen))
	buf = append(buf, m.Username...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(bLen))
	buf = append(buf, m.Body...)
	return buf, nil
}

// Decode reconstructs a message from one datagram payload.
func Decode(payload []byte) (domain.Message, error) {
	if len(payload) > domain.MaxPayloadBytes {
		return decodeErr(errors.ErrFrameTooLong)
	}
	if len(payload) < minFrameBytes {
		return decodeErr(errors.ErrFrameTooShort)
	}
	if payload[0] != frameVersion {
		return decodeErr(fmt.Errorf("%w: 0x%02x", errors.ErrUnknownVersion, payload[0]))
	}

	var sender uuid.UUID
	copy(sender[:], payload[1:17])
	sentAt := time.UnixMilli(int64(binary.BigEndian.Uint64(payload[17:25])))

	uLen := int(payload[25])
	off := 26
	if off+uLen+2 > len(payload) {
		return decodeErr(fmt.Errorf("%w: username", errors.ErrLengthMismatch))
	}
	username := string(payload[off : off+uLen])
	off += uLen

	bLen := int(binary.BigEndian.Uint16(payload[off : off+2]))
	off += 2
	switch {
	case off+bLen > len(payload):
		return decodeErr(fmt.Errorf("%w: body", errors.ErrLengthMismatch))
	case off+bLen < len(payload):
		return decodeErr(errors.ErrTrailingBytes)
	}
	body := string(payload[off:])

	switch {
	case uLen == 0:
		return decodeErr(errors.ErrEmptyUsername)
	case bLen == 0:
		return decodeErr(errors.ErrEmptyBody)
	case uLen > domain.MaxUsernameBytes:
		return decodeErr(errors.ErrUsernameTooLong)
	case bLen > domain.MaxBodyBytes:
		return decodeErr(errors.ErrBodyTooLong)
	case !utf8.ValidString(username) || !utf8.ValidString(body):
		return decodeErr(errors.ErrInvalidText)
	}

	return domain.Message{
		Sender:   sender,
		Username: username,
		SentAt:   sentAt,
		Body:     body,
	}, nil
}
