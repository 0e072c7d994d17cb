package e2e

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"subnet-vox/domain"
	"subnet-vox/domain/event"
	"subnet-vox/runtime"
	"subnet-vox/runtime/workers"
	"subnet-vox/transport"
)

type recordingSink struct {
	mu     sync.Mutex
	events []event.DisplayEvent
}

func (s *recordingSink) Consume(_ context.Context, e event.DisplayEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) peerMessages() []event.PeerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.FilterMap(s.events, func(e event.DisplayEvent, _ int) (event.PeerMessage, bool) {
		msg, ok := e.(event.PeerMessage)
		return msg, ok
	})
}

// participant is one complete session stack: transport, registry,
// session loop and receive worker under a supervisor.
type participant struct {
	identity domain.Identity
	inputs   chan string
	sink     *recordingSink
	done     chan struct{}
}

func startParticipant(t *testing.T, ctx context.Context, cfg Config, username string) *participant {
	t.Helper()

	identity, err := domain.NewIdentity(username)
	require.NoError(t, err)

	group, err := transport.Join(cfg.GroupAddress, cfg.ChatPort, 0, 8192)
	if err != nil {
		t.Skipf("no multicast-capable interface: %v", err)
	}
	t.Cleanup(func() { _ = group.Close() })

	p := &participant{
		identity: identity,
		inputs:   make(chan string, 16),
		sink:     &recordingSink{},
		done:     make(chan struct{}),
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	datagrams := make(chan runtime.Datagram, 64)
	sessionCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)

	session := runtime.NewSession(
		log, identity, runtime.NewRegistry(identity),
		group, nil, p.inputs, datagrams, cancel, time.Minute, p.sink,
	)

	sup := workers.NewSupervisor(log, 50*time.Millisecond)
	sup.Add(workers.NewReceiveWorker(log, group, datagrams), session)
	go func() {
		sup.Run(sessionCtx)
		close(p.done)
	}()
	return p
}

func (p *participant) stop(t *testing.T) {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(5 * time.Second):
		t.Fatal("participant did not shut down")
	}
}

// Two sessions join the same group; A sends "hello"; B sees exactly one
// copy attributed to A, and A sees zero copies of its own echo.
func TestTwoSessions_HelloIsDeliveredOnceAndNeverEchoed(t *testing.T) {
	req := require.New(t)
	cfg, err := LoadConfig()
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := startParticipant(t, ctx, cfg, "alice")
	bob := startParticipant(t, ctx, cfg, "bob")

	alice.inputs <- "hello"

	deadline := time.Now().Add(cfg.WaitTimeout)
	for time.Now().Before(deadline) && len(bob.sink.peerMessages()) == 0 {
		time.Sleep(20 * time.Millisecond)
	}
	if len(bob.sink.peerMessages()) == 0 {
		t.Skip("multicast delivery unavailable in this environment")
	}

	// Give any duplicate or echoed copy time to arrive before counting.
	time.Sleep(300 * time.Millisecond)

	received := bob.sink.peerMessages()
	req.Len(received, 1, "B must see exactly one copy")
	req.Equal("hello", received[0].Message.Body)
	req.Equal("alice", received[0].Message.Username)
	req.Equal(alice.identity.ID, received[0].Message.Sender)

	req.Empty(alice.sink.peerMessages(), "A must never see its own echo")

	cancel()
	alice.stop(t)
	bob.stop(t)
}
