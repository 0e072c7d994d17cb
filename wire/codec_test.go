package wire

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subnet-vox/domain"
	"subnet-vox/errors"
)

func validMessage(t *testing.T, body string) domain.Message {
	t.Helper()
	id, err := domain.NewIdentity("alice")
	require.NoError(t, err)
	msg, err := domain.NewMessage(id, time.Now(), body)
	require.NoError(t, err)
	return msg
}

func TestCodec_RoundTrip(t *testing.T) {
	req := require.New(t)

	bodies := []string{
		"hello",
		"létters & runes — 漢字",
		"contains | pipes ~ and \x00 null",
		strings.Repeat("x", domain.MaxBodyBytes),
	}
	for _, body := range bodies {
		msg := validMessage(t, body)

		payload, err := Encode(msg)
		req.NoError(err)
		req.LessOrEqual(len(payload), domain.MaxPayloadBytes)

		decoded, err := Decode(payload)
		req.NoError(err)
		req.Equal(msg.Sender, decoded.Sender)
		req.Equal(msg.Username, decoded.Username)
		req.Equal(msg.Body, decoded.Body)
		// The wire carries millisecond precision.
		req.Equal(msg.SentAt.UnixMilli(), decoded.SentAt.UnixMilli())
	}
}

func TestEncode_RejectsOversizedFields(t *testing.T) {
	req := require.New(t)
	id, err := domain.NewIdentity("alice")
	req.NoError(err)

	// Bypass the domain constructor to hit the codec's own guards.
	msg := domain.Message{Sender: id.ID, Username: id.Username, SentAt: time.Now(), Body: strings.Repeat("b", domain.MaxBodyBytes+1)}
	_, err = Encode(msg)
	req.ErrorIs(err, errors.ErrBodyTooLong)

	msg = domain.Message{Sender: id.ID, Username: strings.Repeat("u", domain.MaxUsernameBytes+1), SentAt: time.Now(), Body: "hi"}
	_, err = Encode(msg)
	req.ErrorIs(err, errors.ErrUsernameTooLong)

	msg = domain.Message{Sender: id.ID, Username: "alice", SentAt: time.Now(), Body: string([]byte{0xff, 0xfe})}
	_, err = Encode(msg)
	req.ErrorIs(err, errors.ErrInvalidText)
}

func TestDecode_FailsClosed(t *testing.T) {
	valid, err := Encode(validMessage(t, "hello"))
	require.NoError(t, err)

	corrupt := func(mutate func([]byte) []byte) []byte {
		payload := append([]byte(nil), valid...)
		return mutate(payload)
	}

	tests := []struct {
		name     string
		payload  []byte
		expected error
	}{
		{
			name:     "empty payload",
			payload:  nil,
			expected: errors.ErrFrameTooShort,
		},
		{
			name:     "below minimum header",
			payload:  valid[:minFrameBytes-1],
			expected: errors.ErrFrameTooShort,
		},
		{
			name:     "unknown version",
			payload:  corrupt(func(p []byte) []byte { p[0] = 0x7f; return p }),
			expected: errors.ErrUnknownVersion,
		},
		{
			name:     "username length beyond payload",
			payload:  corrupt(func(p []byte) []byte { p[25] = 0xff; return p }),
			expected: errors.ErrLengthMismatch,
		},
		{
			name:     "body length beyond payload",
			payload:  corrupt(func(p []byte) []byte { p[len(p)-7] = 0xff; return p }),
			expected: errors.ErrLengthMismatch,
		},
		{
			name:     "trailing bytes after body",
			payload:  corrupt(func(p []byte) []byte { return append(p, 0x00) }),
			expected: errors.ErrTrailingBytes,
		},
		{
			name:     "body not valid UTF-8",
			payload:  corrupt(func(p []byte) []byte { p[len(p)-1] = 0xff; return p }),
			expected: errors.ErrInvalidText,
		},
		{
			name:     "over maximum payload size",
			payload:  make([]byte, domain.MaxPayloadBytes+1),
			expected: errors.ErrFrameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			require.ErrorIs(t, err, tt.expected)

			var decodeErr *DecodeError
			assert.ErrorAs(t, err, &decodeErr)
		})
	}
}

// Decode must never panic, whatever the truncation point.
func TestDecode_TruncationsNeverPanic(t *testing.T) {
	valid, err := Encode(validMessage(t, "a message long enough to truncate at interesting offsets"))
	require.NoError(t, err)

	for i := 0; i < len(valid); i++ {
		_, err := Decode(valid[:i])
		require.Error(t, err, "truncated at %d bytes", i)
	}
}
