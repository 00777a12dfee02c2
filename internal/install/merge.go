package install

import (
	"os"
	"path/filepath"

	rerrors "github.com/samhoang/reins/internal/errors"
)

// MergeWrite writes files into root without touching anything else in
// it. Every relative path is validated first; one unsafe path fails
// the whole write before any file is created. Returns the paths
// written, relative to root.
func MergeWrite(root string, files map[string][]byte) ([]string, error) {
	rels := make([]string, 0, len(files))
	for rel := range files {
		if _, err := securePath(root, rel); err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}

	written := make([]string, 0, len(rels))
	for _, rel := range rels {
		path, _ := securePath(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, rerrors.NewPathError(path, "install", err)
		}
		if err := os.WriteFile(path, files[rel], 0o644); err != nil {
			return written, rerrors.NewPathError(path, "install", err)
		}
		written = append(written, filepath.ToSlash(rel))
	}
	return written, nil
}

// securePath joins rel onto root, rejecting absolute paths and any
// form of traversal out of root.
func securePath(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", rerrors.NewPathError(rel, "install", rerrors.ErrUnsafePath)
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}
