package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInterfaces() []net.Interface {
	return []net.Interface{
		{Index: 1, Name: "lo", Flags: net.FlagUp | net.FlagLoopback | net.FlagMulticast},
		{Index: 2, Name: "eth0", Flags: net.FlagUp | net.FlagMulticast | net.FlagBroadcast},
		{Index: 3, Name: "wpan0", Flags: net.FlagUp | net.FlagMulticast},
		{Index: 4, Name: "tun0", Flags: net.FlagUp | net.FlagPointToPoint},
		{Index: 5, Name: "wlan0", Flags: net.FlagMulticast},
	}
}

func TestSelectInterfacesDefault(t *testing.T) {
	got, err := selectInterfaces(testInterfaces(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0", "wpan0"}, Names(got))
}

func TestSelectInterfacesByName(t *testing.T) {
	got, err := selectInterfaces(testInterfaces(), []string{"wlan0", "lo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wlan0", "lo"}, Names(got))

	_, err = selectInterfaces(testInterfaces(), []string{"missing0"})
	assert.ErrorContains(t, err, "missing0")
}

func TestNewSenderValidates(t *testing.T) {
	_, err := NewSender("192.0.2.1", 4747, nil)
	assert.Error(t, err)
	_, err = NewSender("not-an-ip", 4747, nil)
	assert.Error(t, err)
	_, err = NewSender("ff02::1", 0, nil)
	assert.Error(t, err)
}

func TestDatagramSourceKey(t *testing.T) {
	d := Datagram{Source: net.ParseIP("fe80::1"), Interface: "wpan0"}
	assert.Equal(t, "fe80::1%wpan0", d.SourceKey())

	d = Datagram{Source: net.ParseIP("2001:db8::5"), Interface: "eth0"}
	assert.Equal(t, "2001:db8::5", d.SourceKey())
}

func TestLoopbackUnicastRoundTrip(t *testing.T) {
	rx, err := Listen("::1", 0, nil, nil)
	if err != nil {
		t.Skipf("udp6 unavailable: %v", err)
	}
	port := rx.LocalAddr().(*net.UDPAddr).Port

	tx, err := NewSender("::1", port, nil)
	require.NoError(t, err)
	defer tx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan Datagram, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- rx.Run(ctx, func(d Datagram) {
			select {
			case got <- d:
			default:
			}
		})
	}()

	payload := []byte{4, 0, 0x28}
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

loop:
	for {
		if err := tx.Transmit(payload); err != nil {
			t.Skipf("ipv6 loopback send failed: %v", err)
		}
		select {
		case d := <-got:
			assert.Equal(t, payload, d.Payload)
			assert.True(t, d.Source.IsLoopback())
			break loop
		case <-tick.C:
		case <-deadline:
			t.Fatal("no datagram received")
		}
	}

	cancel()
	assert.NoError(t, <-errc)
}
