package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rerrors "github.com/samhoang/reins/internal/errors"
)

// Resource is one canonical resource entry for a harness
type Resource struct {
	Name string
	// Path is the on-disk file or directory for directory-based
	// entries; empty for config-embedded entries.
	Path string
	// FromConfig marks entries defined inside the harness's main
	// config file rather than as files.
	FromConfig bool
}

// ListResources returns the canonical listing for a resource kind. For
// dual-source kinds the result is the union by name of directory-based
// items and config-embedded items: directory entries shadow config
// entries of the same name, and ordering is directory scan order
// followed by config key order for names not already seen.
func (h *Harness) ListResources(kind ResourceKind) ([]Resource, error) {
	rp, ok := h.Resolve(kind)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", h.ID(), kind, rerrors.ErrUnsupportedResource)
	}

	resources, err := scanResourceDir(rp)
	if err != nil {
		return nil, err
	}

	if !h.DualSource(kind) {
		return resources, nil
	}

	embedded, err := h.ListConfigEmbedded(kind)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(resources))
	for _, r := range resources {
		seen[r.Name] = true
	}
	for _, name := range embedded {
		if seen[name] {
			continue
		}
		seen[name] = true
		resources = append(resources, Resource{Name: name, FromConfig: true})
	}
	return resources, nil
}

// ListConfigEmbedded parses the harness's main config file and returns
// the names of entries defined there for a dual-source resource kind,
// in key order. A missing config file yields an empty list.
func (h *Harness) ListConfigEmbedded(kind ResourceKind) ([]string, error) {
	section, ok := h.dualSource[kind]
	if !ok {
		return nil, nil
	}

	configPath := h.MainConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rerrors.NewPathError(configPath, "read config", err)
	}

	stripped := []byte(StripJSONC(string(data)))
	names, err := topLevelObjectKeys(stripped, section)
	if err != nil {
		return nil, rerrors.NewParseError(configPath, h.connector.Format.String(), err)
	}
	return names, nil
}

func scanResourceDir(rp ResolvedPath) ([]Resource, error) {
	entries, err := os.ReadDir(rp.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rerrors.NewPathError(rp.Path, "scan resources", err)
	}

	var resources []Resource
	for _, entry := range entries {
		switch rp.Structure {
		case Flat:
			if entry.IsDir() {
				continue
			}
			matched, _ := filepath.Match(rp.Pattern, entry.Name())
			if !matched {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			resources = append(resources, Resource{
				Name: name,
				Path: filepath.Join(rp.Path, entry.Name()),
			})
		case Nested:
			if !entry.IsDir() {
				continue
			}
			itemDir := filepath.Join(rp.Path, entry.Name())
			if _, err := os.Stat(filepath.Join(itemDir, rp.Entry)); err != nil {
				continue
			}
			resources = append(resources, Resource{Name: entry.Name(), Path: itemDir})
		}
	}
	return resources, nil
}

// topLevelObjectKeys returns the member keys of the object stored under
// `section` at the document root, preserving their order in the file.
func topLevelObjectKeys(data []byte, section string) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("config root is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		if key != section {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, nil
		}

		var keys []string
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if k, ok := kt.(string); ok {
				keys = append(keys, k)
			}
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return keys, nil
	}
	return nil, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if dd, ok := tok.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
