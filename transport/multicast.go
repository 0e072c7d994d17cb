// Package transport owns the multicast socket. Nothing else in the
// process touches the socket directly; all traffic flows through Send and
// Receive.
package transport

import (
	"fmt"
	"net"
	"sync/atomic"

	"golang.org/x/net/ipv4"

	"subnet-vox/errors"
)

// Multicast is one joined multicast group endpoint. A single send reaches
// every member of the group, including this process: loopback is forced
// on so self-echo handling stays a protocol concern (identity filtering
// in the session loop) instead of a platform-dependent socket option.
type Multicast struct {
	group  *net.UDPAddr
	conn   *net.UDPConn
	packet *ipv4.PacketConn
	closed atomic.Bool
}

// Join binds a UDP endpoint on the default interface and joins the group.
// A failure here is fatal to the session: there is nothing to retry.
func Join(group string, port, ttl, readBuffer int) (*Multicast, error) {
	ip := net.ParseIP(group)
	if ip == nil || !ip.IsMulticast() {
		return nil, fmt.Errorf("not a multicast group address: %q", group)
	}

	addr := &net.UDPAddr{IP: ip, Port: port}
	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("join group %s: %w", addr, err)
	}

	if err := conn.SetReadBuffer(readBuffer); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set read buffer: %w", err)
	}

	packet := ipv4.NewPacketConn(conn)
	if err := packet.SetMulticastTTL(ttl); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set multicast TTL: %w", err)
	}
	if err := packet.SetMulticastLoopback(true); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable multicast loopback: %w", err)
	}

	return &Multicast{group: addr, conn: conn, packet: packet}, nil
}

// Group reports the joined group address, for logging.
func (m *Multicast) Group() string { return m.group.String() }

// Send transmits one datagram to the group. Errors are reported to the
// caller; retry policy belongs to the session loop.
func (m *Multicast) Send(payload []byte) error {
	if m.closed.Load() {
		return errors.ErrTransportClosed
	}
	if _, err := m.conn.WriteToUDP(payload, m.group); err != nil {
		return fmt.Errorf("send to %s: %w", m.group, err)
	}
	return nil
}

// Receive blocks until a datagram arrives from any group member and
// returns it verbatim. After Close it returns ErrTransportClosed.
func (m *Multicast) Receive(buf []byte) (int, *net.UDPAddr, error) {
	n, src, err := m.conn.ReadFromUDP(buf)
	if err != nil {
		if m.closed.Load() {
			return 0, nil, errors.ErrTransportClosed
		}
		return 0, nil, fmt.Errorf("receive on %s: %w", m.group, err)
	}
	return n, src, nil
}

// Close releases the socket and unblocks any pending Receive. Idempotent.
func (m *Multicast) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	return m.conn.Close()
}
