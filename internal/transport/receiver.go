package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/net/ipv6"
)

// Datagram is one received payload and where it came from.
type Datagram struct {
	Payload    []byte
	Source     net.IP
	SourcePort int
	Interface  string
	ReceivedAt time.Time
}

// SourceKey identifies the sending node, link-local addresses included.
func (d Datagram) SourceKey() string {
	if d.Interface != "" && d.Source.IsLinkLocalUnicast() {
		return d.Source.String() + "%" + d.Interface
	}
	return d.Source.String()
}

type Receiver struct {
	raw    net.PacketConn
	conn   *ipv6.PacketConn
	names  map[int]string
	logger *slog.Logger
}

// Listen binds the port and joins group on each interface. A group that is
// not multicast is bound without joining.
func Listen(group string, port int, ifaces []net.Interface, logger *slog.Logger) (*Receiver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ip := net.ParseIP(group)
	if ip == nil || ip.To4() != nil {
		return nil, fmt.Errorf("invalid IPv6 group %q", group)
	}

	raw, err := net.ListenPacket("udp6", fmt.Sprintf("[::]:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen udp6 port %d: %w", port, err)
	}
	conn := ipv6.NewPacketConn(raw)
	names := make(map[int]string, len(ifaces))

	if ip.IsMulticast() {
		target := &net.UDPAddr{IP: ip}
		joined := 0
		if len(ifaces) == 0 {
			if err := conn.JoinGroup(nil, target); err != nil {
				raw.Close()
				return nil, fmt.Errorf("join %s: %w", ip, err)
			}
			joined++
		}
		for i := range ifaces {
			ifi := ifaces[i]
			names[ifi.Index] = ifi.Name
			if err := conn.JoinGroup(&ifi, target); err != nil {
				logger.Warn("multicast join failed", "iface", ifi.Name, "group", ip.String(), "error", err)
				continue
			}
			joined++
		}
		if joined == 0 {
			raw.Close()
			return nil, fmt.Errorf("join %s: no interface accepted the group", ip)
		}
	}

	if err := conn.SetControlMessage(ipv6.FlagInterface, true); err != nil {
		logger.Debug("interface control messages unavailable", "error", err)
	}

	return &Receiver{raw: raw, conn: conn, names: names, logger: logger}, nil
}

func (r *Receiver) LocalAddr() net.Addr { return r.raw.LocalAddr() }

// Run reads datagrams until ctx is done and passes each to handle. The socket
// is closed when Run returns.
func (r *Receiver) Run(ctx context.Context, handle func(Datagram)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		r.raw.Close()
	}()

	buf := make([]byte, 1500)
	for {
		n, cm, src, err := r.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read datagram: %w", err)
		}

		d := Datagram{
			Payload:    append([]byte(nil), buf[:n]...),
			ReceivedAt: time.Now(),
		}
		if ua, ok := src.(*net.UDPAddr); ok {
			d.Source = ua.IP
			d.SourcePort = ua.Port
			d.Interface = ua.Zone
		}
		if cm != nil && cm.IfIndex != 0 {
			if name, ok := r.names[cm.IfIndex]; ok {
				d.Interface = name
			} else if ifi, err := net.InterfaceByIndex(cm.IfIndex); err == nil {
				d.Interface = ifi.Name
			}
		}
		handle(d)
	}
}
