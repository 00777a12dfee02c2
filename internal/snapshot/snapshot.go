// Package snapshot captures directory trees into memory and writes them
// back out. A restore always clears the destination first so the result
// matches the snapshot exactly; merging into existing content lives in
// the install package, which has the opposite requirement.
package snapshot

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	rerrors "github.com/samhoang/reins/internal/errors"
)

var errNotDir = errors.New("not a directory")

// File is one regular file in a snapshot, addressed by its
// slash-separated path relative to the captured root.
type File struct {
	Rel  string
	Data []byte
	Mode fs.FileMode
}

// Snapshot is a point-in-time copy of a directory tree. Dirs holds every
// directory relative to the root, including empty ones, so a restore
// reproduces the tree shape exactly.
type Snapshot struct {
	Files []File
	Dirs  []string
}

// Capture reads the tree rooted at root into a Snapshot. Hidden entries
// are included. Entries appear in lexical walk order.
func Capture(root string) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, rerrors.NewPathError(root, "capture", err)
	}
	if !info.IsDir() {
		return nil, rerrors.NewPathError(root, "capture", errNotDir)
	}

	snap := &Snapshot{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return rerrors.NewPathError(path, "capture", err)
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return rerrors.NewPathError(path, "capture", err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			snap.Dirs = append(snap.Dirs, rel)
			return nil
		}
		if !d.Type().IsRegular() {
			// sockets, symlinks and the like never belong in a
			// profile and cannot be restored faithfully
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return rerrors.NewPathError(path, "capture", err)
		}
		fi, err := d.Info()
		if err != nil {
			return rerrors.NewPathError(path, "capture", err)
		}
		snap.Files = append(snap.Files, File{Rel: rel, Data: data, Mode: fi.Mode().Perm()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Restore writes the snapshot to root, removing everything that was
// there first. The root directory itself is created if missing and is
// never removed.
func (s *Snapshot) Restore(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return rerrors.NewPathError(root, "restore", err)
	}
	if err := clearDir(root); err != nil {
		return err
	}
	return s.writeTo(root, "restore")
}

// SaveTo writes the snapshot to dest via a staging directory next to it,
// so a crash mid-write never leaves dest half-populated. Any existing
// dest is replaced.
func (s *Snapshot) SaveTo(dest string) error {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return rerrors.NewPathError(parent, "save", err)
	}
	stage, err := os.MkdirTemp(parent, ".staging-")
	if err != nil {
		return rerrors.NewPathError(parent, "save", err)
	}
	defer os.RemoveAll(stage)

	if err := s.writeTo(stage, "save"); err != nil {
		return err
	}
	if err := os.RemoveAll(dest); err != nil {
		return rerrors.NewPathError(dest, "save", err)
	}
	if err := os.Rename(stage, dest); err != nil {
		return rerrors.NewPathError(dest, "save", err)
	}
	return nil
}

// Equal reports whether two snapshots describe identical trees:
// same directories, same files, same content and permissions.
func Equal(a, b *Snapshot) bool {
	if len(a.Files) != len(b.Files) || len(a.Dirs) != len(b.Dirs) {
		return false
	}
	for i := range a.Dirs {
		if a.Dirs[i] != b.Dirs[i] {
			return false
		}
	}
	for i := range a.Files {
		if a.Files[i].Rel != b.Files[i].Rel ||
			a.Files[i].Mode != b.Files[i].Mode ||
			!bytes.Equal(a.Files[i].Data, b.Files[i].Data) {
			return false
		}
	}
	return true
}

// Len reports the number of regular files in the snapshot.
func (s *Snapshot) Len() int { return len(s.Files) }

// Names returns the relative paths of all files, sorted.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.Files))
	for i, f := range s.Files {
		names[i] = f.Rel
	}
	sort.Strings(names)
	return names
}

func (s *Snapshot) writeTo(root, op string) error {
	for _, dir := range s.Dirs {
		path := filepath.Join(root, filepath.FromSlash(dir))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return rerrors.NewPathError(path, op, err)
		}
	}
	for _, f := range s.Files {
		path := filepath.Join(root, filepath.FromSlash(f.Rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return rerrors.NewPathError(path, op, err)
		}
		mode := f.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(path, f.Data, mode); err != nil {
			return rerrors.NewPathError(path, op, err)
		}
	}
	return nil
}

func clearDir(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return rerrors.NewPathError(root, "restore", err)
	}
	for _, e := range entries {
		path := filepath.Join(root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			return rerrors.NewPathError(path, "restore", err)
		}
	}
	return nil
}
