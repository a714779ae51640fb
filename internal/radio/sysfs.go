package radio

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Sysfs maps the radio power option onto Linux runtime power management:
// SLEEP writes "auto" (the device may suspend when idle) and AWAKE writes
// "on" to <root>/<iface>/device/power/control.
type Sysfs struct {
	fs   afero.Fs
	root string
	name string
}

func NewSysfs(fs afero.Fs, root, name string) *Sysfs {
	return &Sysfs{fs: fs, root: root, name: name}
}

func (s *Sysfs) Name() string { return s.name }

func (s *Sysfs) ControlPath() string {
	return filepath.Join(s.root, s.name, "device", "power", "control")
}

func (s *Sysfs) SetState(st State) error {
	var value string
	switch st {
	case Awake:
		value = "on"
	case Sleep:
		value = "auto"
	default:
		return fmt.Errorf("unknown state %v", st)
	}

	path := s.ControlPath()
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("no runtime power control at %s", path)
	}
	if err := afero.WriteFile(s.fs, path, []byte(value+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
