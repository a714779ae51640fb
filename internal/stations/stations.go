// Package stations maps node source addresses to station names.
package stations

import (
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout:
//
//	stations:
//	  - name: greenhouse
//	    address: fe80::212:4b00:1ca1:9d2e
type File struct {
	Stations []Station `yaml:"stations"`
}

type Station struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type Map struct {
	byAddr map[string]string
}

// Load reads a station map. An empty path yields an empty map.
func Load(path string) (*Map, error) {
	if path == "" {
		return &Map{byAddr: map[string]string{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station map: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Map, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse station map: %w", err)
	}

	m := &Map{byAddr: make(map[string]string, len(f.Stations))}
	for i, s := range f.Stations {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("station %d: name is required", i)
		}
		ip := net.ParseIP(strings.TrimSpace(s.Address))
		if ip == nil {
			return nil, fmt.Errorf("station %q: invalid address %q", name, s.Address)
		}
		key := ip.String()
		if prev, dup := m.byAddr[key]; dup {
			return nil, fmt.Errorf("station %q: address %s already mapped to %q", name, key, prev)
		}
		m.byAddr[key] = name
	}
	return m, nil
}

// Lookup returns the station for ip, falling back to the address itself.
func (m *Map) Lookup(ip net.IP) (string, bool) {
	if name, ok := m.byAddr[ip.String()]; ok {
		return name, true
	}
	return ip.String(), false
}

func (m *Map) Len() int { return len(m.byAddr) }
