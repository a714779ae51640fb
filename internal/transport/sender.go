package transport

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/net/ipv6"
)

// Transmitter sends one datagram. A send error is not retried.
type Transmitter interface {
	Transmit(payload []byte) error
}

// Sender writes each payload once per egress interface to a fixed
// destination. Multicast hop limit is 1 so frames stay on the local link.
type Sender struct {
	raw    net.PacketConn
	conn   *ipv6.PacketConn
	dst    *net.UDPAddr
	ifaces []net.Interface
}

func NewSender(group string, port int, ifaces []net.Interface) (*Sender, error) {
	ip := net.ParseIP(group)
	if ip == nil || ip.To4() != nil {
		return nil, fmt.Errorf("invalid IPv6 destination %q", group)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	raw, err := net.ListenPacket("udp6", "[::]:0")
	if err != nil {
		return nil, fmt.Errorf("open udp6 socket: %w", err)
	}
	conn := ipv6.NewPacketConn(raw)
	if ip.IsMulticast() {
		if err := conn.SetMulticastHopLimit(1); err != nil {
			raw.Close()
			return nil, fmt.Errorf("set hop limit: %w", err)
		}
	}

	return &Sender{
		raw:    raw,
		conn:   conn,
		dst:    &net.UDPAddr{IP: ip, Port: port},
		ifaces: ifaces,
	}, nil
}

// Transmit sends payload on every configured interface, or once via the
// default route when none are configured. Per-interface failures are joined.
func (s *Sender) Transmit(payload []byte) error {
	if len(s.ifaces) == 0 {
		if _, err := s.conn.WriteTo(payload, nil, s.dst); err != nil {
			return fmt.Errorf("send to %s: %w", s.dst, err)
		}
		return nil
	}

	var errs []error
	for _, ifi := range s.ifaces {
		cm := &ipv6.ControlMessage{IfIndex: ifi.Index}
		dst := &net.UDPAddr{IP: s.dst.IP, Port: s.dst.Port, Zone: ifi.Name}
		if _, err := s.conn.WriteTo(payload, cm, dst); err != nil {
			errs = append(errs, fmt.Errorf("send via %s: %w", ifi.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Sender) Destination() *net.UDPAddr { return s.dst }

func (s *Sender) Close() error { return s.raw.Close() }
