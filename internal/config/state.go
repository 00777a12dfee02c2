package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// State represents the state.toml file. It records which profile is
// active per harness plus a few user preferences. Load and Save always
// move the whole record, never individual keys.
type State struct {
	// Active maps harness id to the name of its active profile
	Active map[string]string `toml:"active,omitempty"`

	// Editor launched by edit-style commands, overrides $EDITOR
	Editor string `toml:"editor,omitempty"`

	// ProfileMarker enables a marker file in the live config dir
	// naming the active profile
	ProfileMarker bool `toml:"profile_marker,omitempty"`

	// DefaultHarness is assumed when a command omits --harness
	DefaultHarness string `toml:"default_harness,omitempty"`
}

// DefaultState returns the state used before state.toml exists
func DefaultState() *State {
	return &State{
		Active:         map[string]string{},
		DefaultHarness: "claude-code",
	}
}

// LoadState reads state.toml, falling back to defaults if it is missing
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultState(), nil
		}
		return nil, err
	}

	st := DefaultState()
	if err := toml.Unmarshal(data, st); err != nil {
		return nil, err
	}
	if st.Active == nil {
		st.Active = map[string]string{}
	}
	return st, nil
}

// Save writes the whole state record back to disk
func (s *State) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ActiveProfileFor returns the active profile for a harness, if any
func (s *State) ActiveProfileFor(harnessID string) (string, bool) {
	name, ok := s.Active[harnessID]
	return name, ok && name != ""
}

// SetActive records the active profile for a harness
func (s *State) SetActive(harnessID, profile string) {
	if s.Active == nil {
		s.Active = map[string]string{}
	}
	s.Active[harnessID] = profile
}

// ClearActive forgets the active profile for a harness
func (s *State) ClearActive(harnessID string) {
	delete(s.Active, harnessID)
}
