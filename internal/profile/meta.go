package profile

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Meta is the per-profile metadata record. It lives next to the
// profile's snapshot directory, not inside it, so a restore never
// copies it into a live config dir.
type Meta struct {
	Description string    `yaml:"description,omitempty"`
	Created     time.Time `yaml:"created"`
	Updated     time.Time `yaml:"updated"`
}

func loadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Meta{}, nil
		}
		return nil, err
	}
	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Meta) save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
