package connector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	rerrors "github.com/samhoang/reins/internal/errors"
	"github.com/samhoang/reins/internal/harness"
)

// ReadFile parses the connector entries out of a native config file.
// A missing or empty file yields an empty map. For Goose, extension
// entries that are not server connections (builtins and such) are
// skipped rather than rejected.
func ReadFile(h *harness.Harness, path string) (map[string]Descriptor, error) {
	cf := h.ConnectorFile()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]Descriptor{}, nil
	}
	if err != nil {
		return nil, rerrors.NewPathError(path, "read", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]Descriptor{}, nil
	}

	root, err := parseRoot(data, cf.Format)
	if err != nil {
		return nil, rerrors.NewParseError(path, cf.Format.String(), err)
	}

	section, _ := root[cf.Key].(map[string]any)
	out := make(map[string]Descriptor, len(section))
	for name, raw := range section {
		entry, ok := raw.(map[string]any)
		if !ok {
			if h.Kind() == harness.Goose {
				continue
			}
			return nil, rerrors.NewParseError(path, cf.Format.String(),
				fmt.Errorf("connector %q: entry is not an object", name))
		}
		d, err := FromNative(name, entry, h.Kind())
		if err != nil {
			if h.Kind() == harness.Goose {
				continue
			}
			return nil, rerrors.NewParseError(path, cf.Format.String(), err)
		}
		out[name] = d
	}
	return out, nil
}

// WriteFile merges the descriptors into the native config file,
// creating it if needed. Existing entries under other names and every
// key outside the connector section are preserved. For YAML files the
// document is edited in place so comments survive.
func WriteFile(h *harness.Harness, path string, descs []Descriptor) error {
	cf := h.ConnectorFile()
	if cf.Format == harness.YAML {
		return writeYAML(h, path, descs)
	}

	root := map[string]any{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return rerrors.NewPathError(path, "read", err)
	}
	if err == nil && strings.TrimSpace(string(data)) != "" {
		root, err = parseRoot(data, cf.Format)
		if err != nil {
			return rerrors.NewParseError(path, cf.Format.String(), err)
		}
	}

	section, ok := root[cf.Key].(map[string]any)
	if !ok {
		if _, exists := root[cf.Key]; exists {
			return rerrors.NewParseError(path, cf.Format.String(),
				fmt.Errorf("%s section is not an object", cf.Key))
		}
		section = map[string]any{}
		root[cf.Key] = section
	}
	for _, d := range descs {
		section[d.Name] = ToNative(d, h.Kind())
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}
	out = append(out, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return rerrors.NewPathError(path, "write", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return rerrors.NewPathError(path, "write", err)
	}
	return nil
}

// RemoveFromFile deletes one connector entry from the native file,
// leaving everything else in place. Removing a name that is not
// present is a no-op, as is a missing file.
func RemoveFromFile(h *harness.Harness, path, name string) error {
	cf := h.ConnectorFile()
	if cf.Format == harness.YAML {
		return removeYAML(h, path, name)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return rerrors.NewPathError(path, "read", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	root, err := parseRoot(data, cf.Format)
	if err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}
	section, ok := root[cf.Key].(map[string]any)
	if !ok {
		return nil
	}
	if _, present := section[name]; !present {
		return nil
	}
	delete(section, name)

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return rerrors.NewPathError(path, "write", err)
	}
	return nil
}

func removeYAML(h *harness.Harness, path, name string) error {
	cf := h.ConnectorFile()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return rerrors.NewPathError(path, "read", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}
	section := mappingValue(doc.Content[0], cf.Key)
	if section == nil || section.Kind != yaml.MappingNode {
		return nil
	}

	removed := false
	for i := 0; i+1 < len(section.Content); i += 2 {
		if section.Content[i].Value == name {
			section.Content = append(section.Content[:i], section.Content[i+2:]...)
			removed = true
			break
		}
	}
	if !removed {
		return nil
	}

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}
	if err := enc.Close(); err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return rerrors.NewPathError(path, "write", err)
	}
	return nil
}

// Exists reports whether a connector with the given name is present in
// the native file. A missing file means not present.
func Exists(h *harness.Harness, path, name string) (bool, error) {
	entries, err := ReadFile(h, path)
	if err != nil {
		return false, err
	}
	_, ok := entries[name]
	return ok, nil
}

func parseRoot(data []byte, format harness.Format) (map[string]any, error) {
	var root map[string]any
	switch format {
	case harness.YAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, err
		}
	case harness.JSONC:
		if err := json.Unmarshal([]byte(harness.StripJSONC(string(data))), &root); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, err
		}
	}
	if root == nil {
		root = map[string]any{}
	}
	return root, nil
}

// writeYAML edits the YAML document tree instead of round-tripping
// through plain maps, so user comments and key order stay intact.
func writeYAML(h *harness.Harness, path string, descs []Descriptor) error {
	cf := h.ConnectorFile()

	var doc yaml.Node
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return rerrors.NewPathError(path, "read", err)
	}
	if err == nil && strings.TrimSpace(string(data)) != "" {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return rerrors.NewParseError(path, cf.Format.String(), err)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return rerrors.NewParseError(path, cf.Format.String(),
			fmt.Errorf("document root is not a mapping"))
	}

	section := mappingValue(root, cf.Key)
	if section == nil {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: cf.Key},
			&yaml.Node{Kind: yaml.MappingNode})
		section = root.Content[len(root.Content)-1]
	}
	if section.Kind == yaml.ScalarNode && section.Value == "" {
		// key present but empty ("extensions:"), promote to mapping
		*section = yaml.Node{Kind: yaml.MappingNode}
	}
	if section.Kind != yaml.MappingNode {
		return rerrors.NewParseError(path, cf.Format.String(),
			fmt.Errorf("%s section is not a mapping", cf.Key))
	}

	for _, d := range descs {
		value, err := entryNode(ToNative(d, h.Kind()))
		if err != nil {
			return rerrors.NewParseError(path, cf.Format.String(), err)
		}
		if existing := mappingValue(section, d.Name); existing != nil {
			*existing = *value
			continue
		}
		section.Content = append(section.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: d.Name},
			value)
	}

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}
	if err := enc.Close(); err != nil {
		return rerrors.NewParseError(path, cf.Format.String(), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return rerrors.NewPathError(path, "write", err)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return rerrors.NewPathError(path, "write", err)
	}
	return nil
}

// entryNode builds a mapping node with a stable field order; encoding
// a plain map would emit fields in random order.
func entryNode(entry map[string]any) (*yaml.Node, error) {
	order := []string{
		"name", "type", "enabled",
		"cmd", "command", "image", "uri", "url",
		"args", "envs", "env", "environment", "headers",
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range order {
		raw, ok := entry[key]
		if !ok {
			continue
		}
		var value yaml.Node
		if err := value.Encode(raw); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&value)
	}
	return node, nil
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
