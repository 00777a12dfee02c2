package harness

import (
	"os"
	"os/exec"
)

// Status summarizes whether a harness is usable on this machine
type Status int

const (
	NotInstalled Status = iota
	BinaryOnly
	ConfigOnly
	FullyInstalled
)

func (s Status) String() string {
	switch s {
	case BinaryOnly:
		return "binary only"
	case ConfigOnly:
		return "config only"
	case FullyInstalled:
		return "installed"
	default:
		return "not installed"
	}
}

// Detector answers presence questions about harnesses. External lookup
// tools have returned paths outside the config directory and wrong file
// names, so implementations are consulted for yes/no answers only; the
// canonical path table in this package decides where reads and writes
// go.
type Detector interface {
	BinaryInstalled(kind Kind) bool
	ConfigPresent(h *Harness) bool
}

// SystemDetector checks PATH for the harness binary and the filesystem
// for its config directory.
type SystemDetector struct{}

func binaryName(kind Kind) string {
	switch kind {
	case ClaudeCode:
		return "claude"
	case OpenCode:
		return "opencode"
	case Goose:
		return "goose"
	case Amp:
		return "amp"
	case Copilot:
		return "copilot"
	case Crush:
		return "crush"
	default:
		return ""
	}
}

func (SystemDetector) BinaryInstalled(kind Kind) bool {
	name := binaryName(kind)
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

func (SystemDetector) ConfigPresent(h *Harness) bool {
	info, err := os.Stat(h.ConfigDir())
	return err == nil && info.IsDir()
}

// Detect combines binary and config presence into a Status
func Detect(d Detector, h *Harness) Status {
	bin := d.BinaryInstalled(h.Kind())
	cfg := d.ConfigPresent(h)
	switch {
	case bin && cfg:
		return FullyInstalled
	case bin:
		return BinaryOnly
	case cfg:
		return ConfigOnly
	default:
		return NotInstalled
	}
}
