package config

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved paths for reins operations
type Paths struct {
	ReinsDir    string // ~/.config/reins (reins data directory)
	ProfilesDir string // ~/.config/reins/profiles
	BackupsDir  string // ~/.config/reins/backups
}

// ResolvePaths resolves all paths based on environment and defaults
func ResolvePaths() (*Paths, error) {
	reinsDir := os.Getenv("REINS_DIR")
	if reinsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		reinsDir = filepath.Join(home, ".config", "reins")
	}

	return &Paths{
		ReinsDir:    reinsDir,
		ProfilesDir: filepath.Join(reinsDir, "profiles"),
		BackupsDir:  filepath.Join(reinsDir, "backups"),
	}, nil
}

// ProfileDir returns the storage directory for one profile of one harness
func (p *Paths) ProfileDir(harnessID, name string) string {
	return filepath.Join(p.ProfilesDir, harnessID, name)
}

// HarnessProfilesDir returns the directory holding all profiles of one harness
func (p *Paths) HarnessProfilesDir(harnessID string) string {
	return filepath.Join(p.ProfilesDir, harnessID)
}

// BackupDir returns the backup directory for one harness
func (p *Paths) BackupDir(harnessID string) string {
	return filepath.Join(p.BackupsDir, harnessID)
}

// StatePath returns the path of the persisted state file
func (p *Paths) StatePath() string {
	return filepath.Join(p.ReinsDir, "state.toml")
}

// EnsureLayout creates the reins directory tree if missing
func (p *Paths) EnsureLayout() error {
	for _, dir := range []string{p.ReinsDir, p.ProfilesDir, p.BackupsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
