package workers

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"subnet-vox/domain"
	apperrors "subnet-vox/errors"
	"subnet-vox/runtime"
)

// GroupReceiver is the inbound half of the transport. Close must unblock
// a pending Receive.
type GroupReceiver interface {
	Receive(buf []byte) (int, *net.UDPAddr, error)
	Close() error
}

// ReceiveWorker pumps raw datagrams from the socket into the session's
// datagram channel. It closes the channel when the socket becomes
// unusable, which is how the session loop learns about a fatal transport
// failure.
type ReceiveWorker struct {
	log       *slog.Logger
	transport GroupReceiver
	out       chan<- runtime.Datagram
}

func NewReceiveWorker(log *slog.Logger, transport GroupReceiver, out chan<- runtime.Datagram) *ReceiveWorker {
	return &ReceiveWorker{log: log, transport: transport, out: out}
}

func (w *ReceiveWorker) Run(ctx context.Context) error {
	defer close(w.out)

	// Receive blocks in the kernel; closing the socket is the only way to
	// interrupt it when the session is cancelled.
	stop := context.AfterFunc(ctx, func() { _ = w.transport.Close() })
	defer stop()

	// One byte over the maximum so an over-length datagram is seen as
	// over-length instead of silently truncated to a valid size.
	buf := make([]byte, domain.MaxPayloadBytes+1)

	for {
		n, src, err := w.transport.Receive(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, apperrors.ErrTransportClosed) {
				return nil
			}
			w.log.Error("receive failed, socket unusable", "err", err)
			return nil
		}

		payload := append([]byte(nil), buf[:n]...)
		select {
		case w.out <- runtime.Datagram{Payload: payload, Src: src}:
		default:
			// Best-effort transport: a full session backlog sheds load
			// rather than blocking the socket reader.
			w.log.Debug("datagram dropped, session backlog full", "src", src)
		}
	}
}
