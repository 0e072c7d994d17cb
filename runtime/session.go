package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"subnet-vox/contract"
	"subnet-vox/domain"
	"subnet-vox/domain/event"
	"subnet-vox/wire"
)

// State is the session lifecycle: Running once the group join succeeded,
// ShuttingDown on cancellation or an unrecoverable transport failure,
// Terminated after the loop has drained.
type State int

const (
	Running State = iota
	ShuttingDown
	Terminated
)

// Datagram is one raw payload delivered by the receive worker.
type Datagram struct {
	Payload []byte
	Src     *net.UDPAddr
}

// GroupSender is the outbound half of the transport.
type GroupSender interface {
	Send(payload []byte) error
}

// Censor rewrites a message body before display. The zero behavior is the
// identity function.
type Censor func(string) string

// Session is the single consumer loop multiplexing two producers (local
// input lines, network datagrams) and the cancellation signal. Because it
// alone mutates nothing outside its own goroutine except through the
// registry's locked methods, no further synchronization is needed.
type Session struct {
	log         *slog.Logger
	self        domain.Identity
	registry    *Registry
	sender      GroupSender
	censor      Censor
	inputs      <-chan string
	datagrams   <-chan Datagram
	sinks       []contract.DisplaySink
	shutdown    context.CancelFunc
	peerTimeout time.Duration

	now      func() time.Time
	lastSent time.Time

	mu    sync.Mutex
	state State
}

func NewSession(
	log *slog.Logger, self domain.Identity, registry *Registry,
	sender GroupSender, censor Censor,
	inputs <-chan string, datagrams <-chan Datagram,
	shutdown context.CancelFunc, peerTimeout time.Duration,
	sinks ...contract.DisplaySink,
) *Session {
	if censor == nil {
		censor = func(s string) string { return s }
	}
	return &Session{
		log:         log,
		self:        self,
		registry:    registry,
		sender:      sender,
		censor:      censor,
		inputs:      inputs,
		datagrams:   datagrams,
		shutdown:    shutdown,
		peerTimeout: peerTimeout,
		sinks:       sinks,
		now:         time.Now,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Run services whichever event source becomes ready first; neither source
// can block the other. Input events are processed in submission order, so
// sends are never reordered relative to keystrokes. Ordering across
// senders stays best-effort, governed by network delivery.
func (s *Session) Run(ctx context.Context) error {
	s.setState(Running)
	defer s.setState(Terminated)

	s.status(ctx, event.LevelInfo, fmt.Sprintf("joined as %s — type /help for commands", s.self.Username))

	for {
		select {
		case <-ctx.Done():
			s.setState(ShuttingDown)
			s.status(ctx, event.LevelInfo, "leaving the group")
			return nil

		case line, ok := <-s.inputs:
			if !ok {
				// Input stream ended (stdin closed): leave cleanly.
				s.setState(ShuttingDown)
				s.shutdown()
				return nil
			}
			s.handleInput(ctx, line)

		case dg, ok := <-s.datagrams:
			if !ok {
				s.setState(ShuttingDown)
				if ctx.Err() == nil {
					// The receive worker died outside a shutdown: the
					// socket is gone and the session cannot continue.
					s.status(ctx, event.LevelError, "network receive failed — closing session")
					s.shutdown()
				}
				return nil
			}
			s.handleDatagram(ctx, dg)
		}
	}
}

func (s *Session) handleInput(ctx context.Context, line string) {
	switch domain.ParseCommand(line) {
	case domain.CmdNone:
		s.sendMessage(ctx, line)
	case domain.CmdPing:
		s.sendMessage(ctx, "ping")
	case domain.CmdHelp:
		s.status(ctx, event.LevelInfo, "/help this text · /users recently seen peers · /clear wipe scrollback · /ping poke the group · /quit leave")
	case domain.CmdQuit:
		s.shutdown()
	case domain.CmdClear:
		s.emit(ctx, event.ClearScreen{At: s.now()})
	case domain.CmdUsers:
		now := s.now()
		s.registry.Prune(s.peerTimeout, now)
		s.emit(ctx, event.PeerList{Peers: s.registry.Snapshot(), At: now})
	case domain.CmdUnknown:
		s.status(ctx, event.LevelWarn, fmt.Sprintf("unknown command %q — /help lists commands", line))
	}
}

// sendMessage encodes and broadcasts one line. A failed send is reported
// as a status line and the session stays Running: delivery is best-effort
// and a blip must not end the chat.
func (s *Session) sendMessage(ctx context.Context, body string) {
	msg, err := domain.NewMessage(s.self, s.sendTimestamp(), body)
	if err != nil {
		s.status(ctx, event.LevelWarn, fmt.Sprintf("message not sent: %v", err))
		return
	}

	payload, err := wire.Encode(msg)
	if err != nil {
		s.status(ctx, event.LevelWarn, fmt.Sprintf("message not sent: %v", err))
		return
	}

	if err := s.sender.Send(payload); err != nil {
		s.log.Warn("send failed", "err", err)
		s.status(ctx, event.LevelWarn, fmt.Sprintf("send failed: %v", err))
	}
}

// sendTimestamp is monotonically non-decreasing even if the wall clock
// steps backward; the value orders the local display only.
func (s *Session) sendTimestamp() time.Time {
	ts := s.now()
	if ts.Before(s.lastSent) {
		ts = s.lastSent
	}
	s.lastSent = ts
	return ts
}

func (s *Session) handleDatagram(ctx context.Context, dg Datagram) {
	msg, err := wire.Decode(dg.Payload)
	if err != nil {
		s.log.Debug("malformed datagram discarded", "src", dg.Src, "err", err)
		s.status(ctx, event.LevelWarn, fmt.Sprintf("discarded malformed datagram from %s", dg.Src))
		return
	}

	now := s.now()
	firstSeen := s.registry.Observe(msg.Sender, msg.Username, now)

	// Multicast loopback: every send reappears as a receive for its own
	// sender. Identity, not content, decides what is an echo.
	if s.registry.IsSelf(msg.Sender) {
		return
	}

	if firstSeen {
		s.status(ctx, event.LevelInfo, fmt.Sprintf("%s joined the subnet", msg.Username))
	}

	msg.Body = s.censor(msg.Body)
	s.emit(ctx, event.PeerMessage{Message: msg, Received: now})
}

func (s *Session) status(ctx context.Context, level event.Level, text string) {
	s.emit(ctx, event.StatusLine{Level: level, Text: text, At: s.now()})
}

func (s *Session) emit(ctx context.Context, e event.DisplayEvent) {
	for _, sink := range s.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			s.log.Warn("display sink rejected event", "err", err)
		}
	}
}
