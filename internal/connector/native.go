package connector

import (
	"fmt"

	"github.com/samhoang/reins/internal/harness"
)

// ToNative renders the descriptor in the shape the given harness reads
// from its connector file. The result is format-agnostic; the caller
// serializes it as JSON or YAML per the harness.
func ToNative(d Descriptor, kind harness.Kind) map[string]any {
	switch kind {
	case harness.OpenCode:
		return toOpenCode(d)
	case harness.Goose:
		return toGoose(d)
	default:
		return toDefault(d)
	}
}

// FromNative parses a harness-native connector entry back into the
// canonical form. name is the map key the entry was stored under.
func FromNative(name string, v map[string]any, kind harness.Kind) (Descriptor, error) {
	switch kind {
	case harness.OpenCode:
		return fromOpenCode(name, v)
	case harness.Goose:
		return fromGoose(name, v)
	default:
		return fromDefault(name, v)
	}
}

// Claude Code, Amp, Copilot and Crush all use the common mcpServers
// entry shape.
func toDefault(d Descriptor) map[string]any {
	out := map[string]any{"type": d.Transport.String()}
	switch d.Transport {
	case Stdio:
		out["command"] = d.Command
		if len(d.Args) > 0 {
			out["args"] = d.Args
		}
		if len(d.Env) > 0 {
			out["env"] = d.Env
		}
	case SSE, HTTP:
		out["url"] = d.URL
		if len(d.Headers) > 0 {
			out["headers"] = d.Headers
		}
	case Container:
		out["image"] = d.Image
		if len(d.Args) > 0 {
			out["args"] = d.Args
		}
	}
	return out
}

func fromDefault(name string, v map[string]any) (Descriptor, error) {
	d := Descriptor{Name: name}

	transport, err := transportOf(v)
	if err != nil {
		return d, fmt.Errorf("connector %q: %w", name, err)
	}
	d.Transport = transport

	switch transport {
	case Stdio:
		d.Command = stringField(v, "command")
		if d.Command == "" {
			return d, fmt.Errorf("connector %q: stdio entry has no command", name)
		}
		d.Args = stringSlice(v, "args")
		d.Env = stringMap(v, "env")
	case SSE, HTTP:
		d.URL = stringField(v, "url")
		if d.URL == "" {
			return d, fmt.Errorf("connector %q: %s entry has no url", name, transport)
		}
		d.Headers = stringMap(v, "headers")
	case Container:
		d.Image = stringField(v, "image")
		if d.Image == "" {
			return d, fmt.Errorf("connector %q: container entry has no image", name)
		}
		d.Args = stringSlice(v, "args")
	}
	return d, nil
}

// OpenCode wraps the command line in a single array under "local" and
// calls remote HTTP servers "remote".
func toOpenCode(d Descriptor) map[string]any {
	switch d.Transport {
	case Stdio:
		command := append([]string{d.Command}, d.Args...)
		out := map[string]any{"type": "local", "command": command}
		if len(d.Env) > 0 {
			out["environment"] = d.Env
		}
		return out
	case SSE:
		out := map[string]any{"type": "sse", "url": d.URL}
		if len(d.Headers) > 0 {
			out["headers"] = d.Headers
		}
		return out
	case HTTP:
		out := map[string]any{"type": "remote", "url": d.URL}
		if len(d.Headers) > 0 {
			out["headers"] = d.Headers
		}
		return out
	default:
		out := map[string]any{"type": "container", "image": d.Image}
		if len(d.Args) > 0 {
			out["args"] = d.Args
		}
		return out
	}
}

func fromOpenCode(name string, v map[string]any) (Descriptor, error) {
	d := Descriptor{Name: name}

	transport, err := transportOf(v)
	if err != nil {
		return d, fmt.Errorf("connector %q: %w", name, err)
	}
	d.Transport = transport

	switch transport {
	case Stdio:
		command := stringSlice(v, "command")
		if len(command) == 0 {
			return d, fmt.Errorf("connector %q: local entry has empty command", name)
		}
		d.Command = command[0]
		if len(command) > 1 {
			d.Args = command[1:]
		}
		d.Env = stringMap(v, "environment")
	case SSE, HTTP:
		d.URL = stringField(v, "url")
		if d.URL == "" {
			return d, fmt.Errorf("connector %q: %s entry has no url", name, transport)
		}
		d.Headers = stringMap(v, "headers")
	case Container:
		d.Image = stringField(v, "image")
		if d.Image == "" {
			return d, fmt.Errorf("connector %q: container entry has no image", name)
		}
		d.Args = stringSlice(v, "args")
	}
	return d, nil
}

// Goose extensions use cmd/envs/uri and tag remote HTTP servers
// streamable_http. Entries also carry name and enabled, which goose
// requires but the canonical form does not track.
func toGoose(d Descriptor) map[string]any {
	out := map[string]any{"name": d.Name, "enabled": true}
	switch d.Transport {
	case Stdio:
		out["type"] = "stdio"
		out["cmd"] = d.Command
		if len(d.Args) > 0 {
			out["args"] = d.Args
		}
		if len(d.Env) > 0 {
			out["envs"] = d.Env
		}
	case SSE:
		out["type"] = "sse"
		out["uri"] = d.URL
		if len(d.Headers) > 0 {
			out["headers"] = d.Headers
		}
	case HTTP:
		out["type"] = "streamable_http"
		out["uri"] = d.URL
		if len(d.Headers) > 0 {
			out["headers"] = d.Headers
		}
	case Container:
		out["type"] = "container"
		out["image"] = d.Image
		if len(d.Args) > 0 {
			out["args"] = d.Args
		}
	}
	return out
}

func fromGoose(name string, v map[string]any) (Descriptor, error) {
	d := Descriptor{Name: name}

	transport, err := transportOf(v)
	if err != nil {
		return d, fmt.Errorf("connector %q: %w", name, err)
	}
	d.Transport = transport

	switch transport {
	case Stdio:
		d.Command = stringField(v, "cmd")
		if d.Command == "" {
			return d, fmt.Errorf("connector %q: stdio extension has no cmd", name)
		}
		d.Args = stringSlice(v, "args")
		d.Env = stringMap(v, "envs")
	case SSE, HTTP:
		d.URL = stringField(v, "uri")
		if d.URL == "" {
			return d, fmt.Errorf("connector %q: %s extension has no uri", name, transport)
		}
		d.Headers = stringMap(v, "headers")
	case Container:
		d.Image = stringField(v, "image")
		if d.Image == "" {
			return d, fmt.Errorf("connector %q: container extension has no image", name)
		}
		d.Args = stringSlice(v, "args")
	}
	return d, nil
}

// transportOf reads the entry's type tag, inferring stdio or http for
// untagged entries the way older harness versions wrote them.
func transportOf(v map[string]any) (Transport, error) {
	if tag := stringField(v, "type"); tag != "" {
		return ParseTransport(tag)
	}
	if stringField(v, "command") != "" || stringField(v, "cmd") != "" {
		return Stdio, nil
	}
	if stringField(v, "url") != "" || stringField(v, "uri") != "" {
		return HTTP, nil
	}
	return 0, fmt.Errorf("entry has no transport tag")
}

func stringField(v map[string]any, key string) string {
	s, _ := v[key].(string)
	return s
}

func stringSlice(v map[string]any, key string) []string {
	raw, ok := v[key]
	if !ok {
		return nil
	}
	switch vals := raw.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}

func stringMap(v map[string]any, key string) map[string]string {
	raw, ok := v[key]
	if !ok {
		return nil
	}
	switch vals := raw.(type) {
	case map[string]string:
		return vals
	case map[string]any:
		out := make(map[string]string, len(vals))
		for k, item := range vals {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
