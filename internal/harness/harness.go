package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a supported harness. The set is closed and known at
// build time.
type Kind int

const (
	ClaudeCode Kind = iota
	OpenCode
	Goose
	Amp
	Copilot
	Crush
)

// ID returns the canonical kebab-case identifier for the harness
func (k Kind) ID() string {
	switch k {
	case ClaudeCode:
		return "claude-code"
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
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the harness
func (k Kind) DisplayName() string {
	switch k {
	case ClaudeCode:
		return "Claude Code"
	case OpenCode:
		return "OpenCode"
	case Goose:
		return "Goose"
	case Amp:
		return "Amp"
	case Copilot:
		return "Copilot CLI"
	case Crush:
		return "Crush"
	default:
		return "Unknown"
	}
}

func (k Kind) String() string { return k.ID() }

// Kinds returns all supported harness kinds in display order
func Kinds() []Kind {
	return []Kind{ClaudeCode, OpenCode, Goose, Amp, Copilot, Crush}
}

// ParseKind resolves a user-supplied harness name, accepting common
// aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "claude-code", "claude", "cc":
		return ClaudeCode, nil
	case "opencode", "oc":
		return OpenCode, nil
	case "goose":
		return Goose, nil
	case "amp", "ampcode", "amp-code":
		return Amp, nil
	case "copilot", "copilot-cli":
		return Copilot, nil
	case "crush":
		return Crush, nil
	default:
		return 0, fmt.Errorf("unknown harness: %s (valid: claude-code, opencode, goose, amp, copilot, crush)", s)
	}
}

// ResourceKind is a canonical resource concept normalized across
// harnesses.
type ResourceKind string

const (
	Skill     ResourceKind = "skill"
	Agent     ResourceKind = "agent"
	Command   ResourceKind = "command"
	Connector ResourceKind = "connector"
)

// ResourceKinds returns all canonical resource kinds
func ResourceKinds() []ResourceKind {
	return []ResourceKind{Skill, Agent, Command, Connector}
}

// Structure describes how items are laid out under a resource directory
type Structure int

const (
	// Flat stores one file per item (name derived from the file stem)
	Flat Structure = iota
	// Nested stores one directory per item containing a fixed entry file
	Nested
)

// Location is a canonical resource location relative to a harness's
// config directory. The table is owned by this package and never taken
// from external path resolution (which has produced paths outside the
// config dir and wrong file names for some harnesses).
type Location struct {
	Subdir    string
	Structure Structure
	// Pattern matches item files for Flat layouts, e.g. "*.md"
	Pattern string
	// Entry is the fixed per-item filename for Nested layouts
	Entry string
}

// Format identifies a native connector config file format
type Format int

const (
	JSON Format = iota
	JSONC
	YAML
)

func (f Format) String() string {
	switch f {
	case JSONC:
		return "jsonc"
	case YAML:
		return "yaml"
	default:
		return "json"
	}
}

// ConnectorFile describes where a harness keeps its connector map
type ConnectorFile struct {
	Name   string // file name inside the config dir
	Key    string // top-level key holding the connector map
	Format Format
}

// Harness is one supported harness instance: its live config directory
// plus the canonical resource-path table for its kind.
type Harness struct {
	kind       Kind
	configDir  string
	resources  map[ResourceKind]Location
	dualSource map[ResourceKind]string // config key holding embedded entries
	connector  ConnectorFile
	mainConfig string // main config file name ("" if none beyond connector file)
}

// Kind returns the harness kind
func (h *Harness) Kind() Kind { return h.kind }

// ID returns the harness's kebab-case identifier
func (h *Harness) ID() string { return h.kind.ID() }

// ConfigDir returns the harness's live configuration directory
func (h *Harness) ConfigDir() string { return h.configDir }

// Supports reports whether the harness supports a resource kind
func (h *Harness) Supports(kind ResourceKind) bool {
	if kind == Connector {
		return h.connector.Name != ""
	}
	_, ok := h.resources[kind]
	return ok
}

// ResolvedPath is an authoritative on-disk resource location
type ResolvedPath struct {
	Path      string
	Structure Structure
	Pattern   string
	Entry     string
}

// Resolve returns the authoritative location for a resource kind, built
// as config_dir + canonical subdir. The second return is false when the
// kind is outside the harness's capability set; callers must not guess.
func (h *Harness) Resolve(kind ResourceKind) (ResolvedPath, bool) {
	loc, ok := h.resources[kind]
	if !ok {
		return ResolvedPath{}, false
	}
	return ResolvedPath{
		Path:      filepath.Join(h.configDir, loc.Subdir),
		Structure: loc.Structure,
		Pattern:   loc.Pattern,
		Entry:     loc.Entry,
	}, true
}

// ConnectorFile returns the harness's connector config descriptor
func (h *Harness) ConnectorFile() ConnectorFile { return h.connector }

// ConnectorPath returns the absolute path of the connector config file
func (h *Harness) ConnectorPath() string {
	return filepath.Join(h.configDir, h.connector.Name)
}

// MainConfigPath returns the harness's main config file path, or ""
// when the harness keeps no config-embedded resources.
func (h *Harness) MainConfigPath() string {
	if h.mainConfig == "" {
		return ""
	}
	return filepath.Join(h.configDir, h.mainConfig)
}

// DualSource reports whether a resource kind is defined both as files
// under a directory and as keyed entries in the main config file.
func (h *Harness) DualSource(kind ResourceKind) bool {
	_, ok := h.dualSource[kind]
	return ok
}

// Locate builds the Harness for a kind using its platform config
// directory. A <HARNESS>_CONFIG_DIR environment variable overrides the
// default.
func Locate(kind Kind) (*Harness, error) {
	dir, err := defaultConfigDir(kind)
	if err != nil {
		return nil, err
	}
	return New(kind, dir), nil
}

// New builds a Harness for a kind rooted at an explicit config
// directory. Used by Locate and by tests.
func New(kind Kind, configDir string) *Harness {
	h := &Harness{kind: kind, configDir: configDir}
	switch kind {
	case ClaudeCode:
		h.resources = map[ResourceKind]Location{
			Skill:   {Subdir: "skills", Structure: Nested, Entry: "SKILL.md"},
			Agent:   {Subdir: "agents", Structure: Flat, Pattern: "*.md"},
			Command: {Subdir: "commands", Structure: Flat, Pattern: "*.md"},
		}
		h.connector = ConnectorFile{Name: ".mcp.json", Key: "mcpServers", Format: JSON}
	case OpenCode:
		// OpenCode names its resource directories in the singular.
		h.resources = map[ResourceKind]Location{
			Skill:   {Subdir: "skill", Structure: Nested, Entry: "SKILL.md"},
			Agent:   {Subdir: "agent", Structure: Flat, Pattern: "*.md"},
			Command: {Subdir: "command", Structure: Flat, Pattern: "*.md"},
		}
		h.dualSource = map[ResourceKind]string{Agent: "agent", Command: "command"}
		h.connector = ConnectorFile{Name: "opencode.jsonc", Key: "mcp", Format: JSONC}
		h.mainConfig = "opencode.jsonc"
	case Goose:
		h.resources = map[ResourceKind]Location{
			Skill:   {Subdir: "skills", Structure: Nested, Entry: "SKILL.md"},
			Command: {Subdir: "recipes", Structure: Flat, Pattern: "*.yaml"},
		}
		h.connector = ConnectorFile{Name: "config.yaml", Key: "extensions", Format: YAML}
	case Amp:
		h.resources = map[ResourceKind]Location{
			Skill:   {Subdir: "skills", Structure: Nested, Entry: "SKILL.md"},
			Command: {Subdir: "commands", Structure: Flat, Pattern: "*.md"},
		}
		h.connector = ConnectorFile{Name: "settings.json", Key: "amp.mcpServers", Format: JSON}
	case Copilot:
		h.resources = map[ResourceKind]Location{
			Agent: {Subdir: "agents", Structure: Flat, Pattern: "*.md"},
		}
		h.connector = ConnectorFile{Name: "mcp-config.json", Key: "mcpServers", Format: JSON}
	case Crush:
		h.resources = map[ResourceKind]Location{
			Command: {Subdir: "commands", Structure: Flat, Pattern: "*.md"},
		}
		h.connector = ConnectorFile{Name: "crush.json", Key: "mcp", Format: JSON}
	}
	return h
}

func defaultConfigDir(kind Kind) (string, error) {
	envKey := strings.ToUpper(strings.ReplaceAll(kind.ID(), "-", "_")) + "_CONFIG_DIR"
	if dir := os.Getenv(envKey); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch kind {
	case ClaudeCode:
		return filepath.Join(home, ".claude"), nil
	case OpenCode:
		return filepath.Join(home, ".config", "opencode"), nil
	case Goose:
		return filepath.Join(home, ".config", "goose"), nil
	case Amp:
		return filepath.Join(home, ".config", "amp"), nil
	case Copilot:
		return filepath.Join(home, ".copilot"), nil
	case Crush:
		return filepath.Join(home, ".config", "crush"), nil
	default:
		return "", fmt.Errorf("unknown harness kind: %d", kind)
	}
}
