package install

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	rerrors "github.com/samhoang/reins/internal/errors"
)

const manifestName = ".reins-manifest.json"

// Manifest tracks what was installed into a profile, so uninstall can
// remove exactly the files a component brought and nothing else. It
// lives inside the profile snapshot and travels with it.
type Manifest struct {
	Components []Record `json:"components"`
}

// Record is one installed component. Files lists the written paths
// relative to the profile root; Dir is set for nested components and
// names the directory the whole component lives in.
type Record struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Source    string    `json:"source,omitempty"`
	Files     []string  `json:"files,omitempty"`
	Dir       string    `json:"dir,omitempty"`
	Installed time.Time `json:"installed"`
}

// LoadManifest reads the manifest out of a profile directory. A
// missing manifest is an empty one.
func LoadManifest(profileDir string) (*Manifest, error) {
	path := filepath.Join(profileDir, manifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, rerrors.NewPathError(path, "read", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, rerrors.NewParseError(path, "json", err)
	}
	return &m, nil
}

// Save writes the manifest back into the profile directory.
func (m *Manifest) Save(profileDir string) error {
	path := filepath.Join(profileDir, manifestName)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return rerrors.NewPathError(path, "write", err)
	}
	return nil
}

// Upsert records a component, replacing any previous record with the
// same kind and name. Reinstalling is how components get updated.
func (m *Manifest) Upsert(rec Record) {
	for i, existing := range m.Components {
		if existing.Kind == rec.Kind && existing.Name == rec.Name {
			m.Components[i] = rec
			return
		}
	}
	m.Components = append(m.Components, rec)
}

// Find looks up a component record by kind and name.
func (m *Manifest) Find(kind, name string) (Record, bool) {
	for _, rec := range m.Components {
		if rec.Kind == kind && rec.Name == name {
			return rec, true
		}
	}
	return Record{}, false
}

// Remove drops a component record. Reports whether it was present.
func (m *Manifest) Remove(kind, name string) bool {
	for i, rec := range m.Components {
		if rec.Kind == kind && rec.Name == name {
			m.Components = append(m.Components[:i], m.Components[i+1:]...)
			return true
		}
	}
	return false
}
