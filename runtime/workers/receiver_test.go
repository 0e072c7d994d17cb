package workers

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subnet-vox/runtime"
)

// scriptedReceiver plays back queued payloads, then blocks until closed.
type scriptedReceiver struct {
	payloads chan []byte
	fatal    chan error
	done     chan struct{}

	closeOnce sync.Once
}

func newScriptedReceiver() *scriptedReceiver {
	return &scriptedReceiver{
		payloads: make(chan []byte, 16),
		fatal:    make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func (r *scriptedReceiver) Receive(buf []byte) (int, *net.UDPAddr, error) {
	// Drain queued payloads before reporting a scripted failure, so tests
	// control the exact delivery order.
	select {
	case p := <-r.payloads:
		return copy(buf, p), &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2223}, nil
	default:
	}
	select {
	case p := <-r.payloads:
		return copy(buf, p), &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2223}, nil
	case err := <-r.fatal:
		return 0, nil, err
	case <-r.done:
		return 0, nil, fmt.Errorf("use of closed network connection")
	}
}

func (r *scriptedReceiver) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

func TestReceiveWorker_DeliversDatagrams(t *testing.T) {
	req := require.New(t)
	src := newScriptedReceiver()
	out := make(chan runtime.Datagram, 16)
	worker := NewReceiveWorker(discardLogger(), src, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	src.payloads <- []byte("first")
	src.payloads <- []byte("second")

	select {
	case dg := <-out:
		req.Equal([]byte("first"), dg.Payload)
		req.NotNil(dg.Src)
	case <-time.After(2 * time.Second):
		t.Fatal("datagram never delivered")
	}
	select {
	case dg := <-out:
		req.Equal([]byte("second"), dg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("second datagram never delivered")
	}
}

func TestReceiveWorker_CancelClosesSocketAndChannel(t *testing.T) {
	src := newScriptedReceiver()
	out := make(chan runtime.Datagram, 16)
	worker := NewReceiveWorker(discardLogger(), src, out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "shutdown is a clean exit, not a crash")
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancellation")
	}

	_, open := <-out
	assert.False(t, open, "datagram channel must be closed on exit")
}

func TestReceiveWorker_FatalErrorClosesChannel(t *testing.T) {
	src := newScriptedReceiver()
	out := make(chan runtime.Datagram, 16)
	worker := NewReceiveWorker(discardLogger(), src, out)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	src.fatal <- fmt.Errorf("socket gone")

	select {
	case err := <-done:
		// The worker exits cleanly; the closed channel is the signal the
		// session loop acts on.
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on fatal receive error")
	}

	_, open := <-out
	assert.False(t, open)
}

func TestReceiveWorker_ShedsLoadWhenBacklogFull(t *testing.T) {
	req := require.New(t)
	src := newScriptedReceiver()
	out := make(chan runtime.Datagram, 1)
	worker := NewReceiveWorker(discardLogger(), src, out)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	// Nobody drains out: the first datagram fills the buffer, the second
	// is shed instead of blocking the socket reader.
	src.payloads <- []byte("kept")
	src.payloads <- []byte("dropped")
	src.fatal <- fmt.Errorf("end of script")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not finish")
	}

	var received [][]byte
	for dg := range out {
		received = append(received, dg.Payload)
	}
	req.Equal([][]byte{[]byte("kept")}, received)
}
