package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrEmptyBody       = fmt.Errorf("message body is empty")
	ErrEmptyUsername   = fmt.Errorf("username is empty")
	ErrBodyTooLong     = fmt.Errorf("message body exceeds maximum length")
	ErrUsernameTooLong = fmt.Errorf("username exceeds maximum length")

	ErrFrameTooShort  = fmt.Errorf("frame shorter than fixed header")
	ErrFrameTooLong   = fmt.Errorf("frame exceeds maximum payload size")
	ErrUnknownVersion = fmt.Errorf("unknown frame version")
	ErrLengthMismatch = fmt.Errorf("length field exceeds remaining bytes")
	ErrTrailingBytes  = fmt.Errorf("unexpected bytes after frame end")
	ErrInvalidText    = fmt.Errorf("text field is not valid UTF-8")

	ErrTransportClosed = fmt.Errorf("transport closed")

	ErrEmptyWordList = fmt.Errorf("no censored words have been found")
)
