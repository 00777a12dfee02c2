// Package profile owns the profile lifecycle for one harness: create,
// list, show, delete, backup and the switch protocol. Profile storage
// is a snapshot of the harness config dir under the reins data
// directory; which profile is live is recorded in state.toml.
package profile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samhoang/reins/internal/config"
	"github.com/samhoang/reins/internal/connector"
	rerrors "github.com/samhoang/reins/internal/errors"
	"github.com/samhoang/reins/internal/harness"
	"github.com/samhoang/reins/internal/snapshot"
)

const markerPrefix = "REINS_PROFILE_"

// Backups made automatically before a first switch are rotated; only
// the newest maxBackups are kept.
const maxBackups = 5

// Manager drives profile operations for a single harness.
type Manager struct {
	paths *config.Paths
	h     *harness.Harness
}

func NewManager(paths *config.Paths, h *harness.Harness) *Manager {
	return &Manager{paths: paths, h: h}
}

// Info summarizes one stored profile.
type Info struct {
	Name        string
	Description string
	Created     time.Time
	Updated     time.Time
	Active      bool
	Files       int
}

// Details is the full view of one profile, resources resolved through
// the same registry the live config dir uses.
type Details struct {
	Info       Info
	Resources  map[harness.ResourceKind][]string
	Connectors []string
}

func (m *Manager) dir(name string) string {
	return m.paths.ProfileDir(m.h.ID(), name)
}

func (m *Manager) metaPath(name string) string {
	return m.dir(name) + ".yaml"
}

// Exists reports whether a profile directory is present.
func (m *Manager) Exists(name string) bool {
	info, err := os.Stat(m.dir(name))
	return err == nil && info.IsDir()
}

// Active returns the name of the active profile for this harness.
func (m *Manager) Active() (string, bool) {
	st, err := config.LoadState(m.paths.StatePath())
	if err != nil {
		return "", false
	}
	return st.ActiveProfileFor(m.h.ID())
}

// Create stores a new profile. With fromCurrent the live config dir is
// captured as the profile's content and the profile becomes active,
// since the live dir already matches it. Without, the profile starts
// empty and activation is left to a later switch.
func (m *Manager) Create(name, description string, fromCurrent bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if m.Exists(name) {
		return rerrors.NewProfileError(m.h.ID(), name, "create", rerrors.ErrProfileExists)
	}

	now := time.Now().UTC()
	meta := &Meta{Description: description, Created: now, Updated: now}

	if !fromCurrent {
		if err := os.MkdirAll(m.dir(name), 0o755); err != nil {
			return rerrors.NewPathError(m.dir(name), "create", err)
		}
		return meta.save(m.metaPath(name))
	}

	if err := removeMarkers(m.h.ConfigDir()); err != nil {
		return err
	}
	snap, err := m.captureLive()
	if err != nil {
		return err
	}
	if err := snap.SaveTo(m.dir(name)); err != nil {
		return err
	}
	if err := meta.save(m.metaPath(name)); err != nil {
		return err
	}

	st, err := config.LoadState(m.paths.StatePath())
	if err != nil {
		return err
	}
	st.SetActive(m.h.ID(), name)
	if st.ProfileMarker {
		if err := writeMarker(m.h.ConfigDir(), name); err != nil {
			return err
		}
	}
	return st.Save(m.paths.StatePath())
}

// EnsureDefault captures the live config dir into a profile named
// "default" when no profiles exist for this harness yet, so the first
// switch has something to come back to. It is a no-op when any profile
// is already stored or the live dir is missing.
func (m *Manager) EnsureDefault() error {
	infos, err := m.List()
	if err != nil {
		return err
	}
	if len(infos) > 0 {
		return nil
	}
	if _, err := os.Stat(m.h.ConfigDir()); err != nil {
		return nil
	}
	return m.Create("default", "captured from the live config dir", true)
}

// List returns all stored profiles for this harness, sorted by name.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.paths.HarnessProfilesDir(m.h.ID()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	active, _ := m.Active()

	var infos []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := m.info(e.Name(), active)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Show returns the full view of one profile, including its resources
// and connector names read out of profile storage.
func (m *Manager) Show(name string) (*Details, error) {
	if !m.Exists(name) {
		return nil, rerrors.NewProfileError(m.h.ID(), name, "show", rerrors.ErrProfileNotFound)
	}

	active, _ := m.Active()
	info, err := m.info(name, active)
	if err != nil {
		return nil, err
	}

	// a stored profile has the same layout as a live config dir, so
	// the registry can resolve paths inside it directly
	stored := harness.New(m.h.Kind(), m.dir(name))

	resources := map[harness.ResourceKind][]string{}
	for _, kind := range harness.ResourceKinds() {
		if kind == harness.Connector || !stored.Supports(kind) {
			continue
		}
		items, err := stored.ListResources(kind)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(items))
		for i, item := range items {
			names[i] = item.Name
		}
		resources[kind] = names
	}

	var connectors []string
	if stored.Supports(harness.Connector) {
		entries, err := connector.ReadFile(stored, stored.ConnectorPath())
		if err != nil {
			return nil, err
		}
		for cname := range entries {
			connectors = append(connectors, cname)
		}
		sort.Strings(connectors)
	}

	return &Details{Info: info, Resources: resources, Connectors: connectors}, nil
}

// Delete removes a stored profile. The active profile cannot be
// deleted; switch away first.
func (m *Manager) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !m.Exists(name) {
		return rerrors.NewProfileError(m.h.ID(), name, "delete", rerrors.ErrProfileNotFound)
	}
	if active, ok := m.Active(); ok && active == name {
		return rerrors.NewProfileError(m.h.ID(), name, "delete", rerrors.ErrActiveProfile)
	}
	if err := os.RemoveAll(m.dir(name)); err != nil {
		return rerrors.NewPathError(m.dir(name), "delete", err)
	}
	if err := os.Remove(m.metaPath(name)); err != nil && !os.IsNotExist(err) {
		return rerrors.NewPathError(m.metaPath(name), "delete", err)
	}
	return nil
}

// Switch makes the named profile live. The live config dir is first
// captured back into the currently active profile, so edits made since
// the last switch are never lost. If no profile is active yet, the
// live dir is backed up instead. Switching to the already-active
// profile is a no-op.
func (m *Manager) Switch(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !m.Exists(name) {
		return rerrors.NewProfileError(m.h.ID(), name, "switch", rerrors.ErrProfileNotFound)
	}

	st, err := config.LoadState(m.paths.StatePath())
	if err != nil {
		return err
	}
	active, hasActive := st.ActiveProfileFor(m.h.ID())
	if hasActive && active == name {
		return nil
	}

	if err := removeMarkers(m.h.ConfigDir()); err != nil {
		return err
	}
	if hasActive {
		if err := m.saveLiveInto(active); err != nil {
			return err
		}
	} else if _, err := os.Stat(m.h.ConfigDir()); err == nil {
		if _, err := m.backupLive(); err != nil {
			return err
		}
	}

	snap, err := snapshot.Capture(m.dir(name))
	if err != nil {
		return err
	}
	if err := snap.Restore(m.h.ConfigDir()); err != nil {
		return err
	}

	if st.ProfileMarker {
		if err := writeMarker(m.h.ConfigDir(), name); err != nil {
			return err
		}
	}
	st.SetActive(m.h.ID(), name)
	return st.Save(m.paths.StatePath())
}

// Save captures the live config dir into the currently active profile
// without switching. Fails if no profile is active.
func (m *Manager) Save() error {
	active, ok := m.Active()
	if !ok {
		return rerrors.NewProfileError(m.h.ID(), "", "save", rerrors.ErrNoActiveProfile)
	}
	if err := removeMarkers(m.h.ConfigDir()); err != nil {
		return err
	}
	if err := m.saveLiveInto(active); err != nil {
		return err
	}
	st, err := config.LoadState(m.paths.StatePath())
	if err != nil {
		return err
	}
	if st.ProfileMarker {
		return writeMarker(m.h.ConfigDir(), active)
	}
	return nil
}

// Backup copies the live config dir into the backups area and returns
// the backup path. Old backups beyond the retention limit are pruned.
func (m *Manager) Backup() (string, error) {
	snap, err := m.captureLive()
	if err != nil {
		return "", err
	}
	return m.storeBackup(snap)
}

func (m *Manager) backupLive() (string, error) {
	snap, err := snapshot.Capture(m.h.ConfigDir())
	if err != nil {
		return "", err
	}
	return m.storeBackup(snap)
}

func (m *Manager) storeBackup(snap *snapshot.Snapshot) (string, error) {
	stamp := time.Now().UTC().Format("20060102-150405.000000000")
	dest := filepath.Join(m.paths.BackupDir(m.h.ID()), stamp)
	if err := snap.SaveTo(dest); err != nil {
		return "", err
	}
	return dest, m.pruneBackups()
}

func (m *Manager) pruneBackups() error {
	dir := m.paths.BackupDir(m.h.ID())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	// timestamp names sort chronologically
	sort.Strings(names)
	for len(names) > maxBackups {
		if err := os.RemoveAll(filepath.Join(dir, names[0])); err != nil {
			return err
		}
		names = names[1:]
	}
	return nil
}

func (m *Manager) saveLiveInto(name string) error {
	snap, err := m.captureLive()
	if err != nil {
		return err
	}
	if err := snap.SaveTo(m.dir(name)); err != nil {
		return err
	}
	meta, err := loadMeta(m.metaPath(name))
	if err != nil {
		return err
	}
	meta.Updated = time.Now().UTC()
	return meta.save(m.metaPath(name))
}

// captureLive snapshots the live config dir, treating a missing dir as
// an empty tree.
func (m *Manager) captureLive() (*snapshot.Snapshot, error) {
	if _, err := os.Stat(m.h.ConfigDir()); os.IsNotExist(err) {
		return &snapshot.Snapshot{}, nil
	}
	return snapshot.Capture(m.h.ConfigDir())
}

func (m *Manager) info(name, active string) (Info, error) {
	meta, err := loadMeta(m.metaPath(name))
	if err != nil {
		return Info{}, err
	}
	files, err := countFiles(m.dir(name))
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:        name,
		Description: meta.Description,
		Created:     meta.Created,
		Updated:     meta.Updated,
		Active:      name == active,
		Files:       files,
	}, nil
}

func countFiles(root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	return count, err
}

func removeMarkers(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return rerrors.NewPathError(dir, "marker", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), markerPrefix) {
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				return rerrors.NewPathError(path, "marker", err)
			}
		}
	}
	return nil
}

func writeMarker(dir, profile string) error {
	path := filepath.Join(dir, markerPrefix+profile)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return rerrors.NewPathError(path, "marker", err)
	}
	return nil
}
