// Package transport carries encoded frames over IPv6 UDP multicast.
package transport

import (
	"fmt"
	"net"
)

// Discover returns the named interfaces in the order given. With no names it
// returns every interface that is up, multicast-capable and not loopback.
// The result is meant to be computed once at startup.
func Discover(names []string) ([]net.Interface, error) {
	all, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	return selectInterfaces(all, names)
}

func selectInterfaces(all []net.Interface, names []string) ([]net.Interface, error) {
	if len(names) == 0 {
		var out []net.Interface
		for _, ifi := range all {
			if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
				continue
			}
			if ifi.Flags&net.FlagMulticast == 0 {
				continue
			}
			out = append(out, ifi)
		}
		return out, nil
	}

	byName := make(map[string]net.Interface, len(all))
	for _, ifi := range all {
		byName[ifi.Name] = ifi
	}
	out := make([]net.Interface, 0, len(names))
	for _, name := range names {
		ifi, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("interface %q not found", name)
		}
		out = append(out, ifi)
	}
	return out, nil
}

// Names returns the interface names in order.
func Names(ifaces []net.Interface) []string {
	out := make([]string, len(ifaces))
	for i, ifi := range ifaces {
		out[i] = ifi.Name
	}
	return out
}
