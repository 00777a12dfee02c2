package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	rerrors "github.com/samhoang/reins/internal/errors"
)

func writeTree(t *testing.T, root string, files map[string]string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"settings.json":        `{"theme":"dark"}`,
		".hidden":              "secret",
		"skills/art/SKILL.md":  "# Art",
		"commands/review.md":   "review",
		"agents/deep/notes.md": "notes",
	}, "empty", "skills/blank")

	snap, err := Capture(src)
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if snap.Len() != 5 {
		t.Errorf("Len = %d, want 5", snap.Len())
	}

	dst := t.TempDir()
	if err := snap.Restore(dst); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	back, err := Capture(dst)
	if err != nil {
		t.Fatalf("Capture(restored) error: %v", err)
	}
	if !Equal(snap, back) {
		t.Errorf("round trip changed the tree: %v vs %v", snap.Names(), back.Names())
	}
	if !reflect.DeepEqual(snap.Dirs, back.Dirs) {
		t.Errorf("dirs differ: %v vs %v", snap.Dirs, back.Dirs)
	}

	data, err := os.ReadFile(filepath.Join(dst, ".hidden"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "secret" {
		t.Errorf("hidden file = %q, want secret", data)
	}
	if _, err := os.Stat(filepath.Join(dst, "empty")); err != nil {
		t.Errorf("empty dir not restored: %v", err)
	}
}

func TestRestoreClearsDestinationFirst(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"keep.md": "keep"})

	snap, err := Capture(src)
	if err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	writeTree(t, dst, map[string]string{
		"stale.md":       "stale",
		"deep/leaked.md": "leaked",
	})

	if err := snap.Restore(dst); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "stale.md")); !os.IsNotExist(err) {
		t.Error("stale.md survived restore")
	}
	if _, err := os.Stat(filepath.Join(dst, "deep")); !os.IsNotExist(err) {
		t.Error("deep/ survived restore")
	}
	if _, err := os.Stat(filepath.Join(dst, "keep.md")); err != nil {
		t.Errorf("keep.md missing after restore: %v", err)
	}
}

func TestRestoreCreatesMissingRoot(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "a"})

	snap, err := Capture(src)
	if err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "not", "yet", "here")
	if err := snap.Restore(dst); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "a.md")); err != nil {
		t.Errorf("a.md missing: %v", err)
	}
}

func TestCaptureMissingRoot(t *testing.T) {
	_, err := Capture(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("Capture() should fail for a missing root")
	}
	var perr *rerrors.PathError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *PathError", err)
	}
	if perr.Path == "" {
		t.Error("PathError.Path is empty; the failing path must be reported")
	}
}

func TestCapturePreservesMode(t *testing.T) {
	src := t.TempDir()
	path := filepath.Join(src, "hook.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	snap, err := Capture(src)
	if err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	if err := snap.Restore(dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dst, "hook.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestSaveToReplacesExisting(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"new.md": "new"})

	snap, err := Capture(src)
	if err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "profiles", "work")
	writeTree(t, dest, map[string]string{"old.md": "old"})

	if err := snap.SaveTo(dest); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, "old.md")); !os.IsNotExist(err) {
		t.Error("old.md survived SaveTo")
	}
	if _, err := os.Stat(filepath.Join(dest, "new.md")); err != nil {
		t.Errorf("new.md missing: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "work" {
			t.Errorf("leftover staging entry %q", e.Name())
		}
	}
}

func TestCaptureSkipsNonRegular(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"real.md": "x"})
	if err := os.Symlink(filepath.Join(src, "real.md"), filepath.Join(src, "link.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	snap, err := Capture(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.Names(); len(got) != 1 || got[0] != "real.md" {
		t.Errorf("names = %v, want [real.md]", got)
	}
}
