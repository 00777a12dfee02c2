package connector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/samhoang/reins/internal/errors"
	"github.com/samhoang/reins/internal/harness"
)

func sampleDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:      "filesystem",
			Transport: Stdio,
			Command:   "npx",
			Args:      []string{"-y", "@modelcontextprotocol/server-filesystem"},
			Env:       map[string]string{"FS_ROOT": "/tmp"},
		},
		{
			Name:      "events",
			Transport: SSE,
			URL:       "https://example.com/sse",
			Headers:   map[string]string{"Authorization": "Bearer ${API_TOKEN}"},
		},
		{
			Name:      "search",
			Transport: HTTP,
			URL:       "https://example.com/mcp",
		},
		{
			Name:      "sandbox",
			Transport: Container,
			Image:     "ghcr.io/example/sandbox:latest",
			Args:      []string{"--readonly"},
		},
	}
}

func TestRoundTripAllHarnesses(t *testing.T) {
	for _, kind := range harness.Kinds() {
		for _, want := range sampleDescriptors() {
			native := ToNative(want, kind)
			got, err := FromNative(want.Name, native, kind)
			require.NoError(t, err, "%s/%s", kind, want.Name)
			assert.Equal(t, want, got, "%s/%s", kind, want.Name)
		}
	}
}

func TestToNativeOpenCodeJoinsCommand(t *testing.T) {
	d := Descriptor{Name: "fs", Transport: Stdio, Command: "npx", Args: []string{"-y", "server"}}

	native := ToNative(d, harness.OpenCode)

	assert.Equal(t, "local", native["type"])
	assert.Equal(t, []string{"npx", "-y", "server"}, native["command"])
	assert.NotContains(t, native, "args")
}

func TestToNativeGooseFieldNames(t *testing.T) {
	d := Descriptor{
		Name:      "fs",
		Transport: Stdio,
		Command:   "uvx",
		Env:       map[string]string{"KEY": "v"},
	}

	native := ToNative(d, harness.Goose)

	assert.Equal(t, "stdio", native["type"])
	assert.Equal(t, "uvx", native["cmd"])
	assert.Equal(t, map[string]string{"KEY": "v"}, native["envs"])
	assert.Equal(t, true, native["enabled"])
}

func TestToNativeGooseHTTPTag(t *testing.T) {
	d := Descriptor{Name: "web", Transport: HTTP, URL: "https://x.test/mcp"}

	native := ToNative(d, harness.Goose)

	assert.Equal(t, "streamable_http", native["type"])
	assert.Equal(t, "https://x.test/mcp", native["uri"])
}

func TestFromNativeUntaggedStdio(t *testing.T) {
	got, err := FromNative("legacy", map[string]any{
		"command": "node",
		"args":    []any{"server.js"},
	}, harness.ClaudeCode)

	require.NoError(t, err)
	assert.Equal(t, Stdio, got.Transport)
	assert.Equal(t, "node", got.Command)
	assert.Equal(t, []string{"server.js"}, got.Args)
}

func TestFromNativeUntaggedURL(t *testing.T) {
	got, err := FromNative("legacy", map[string]any{
		"url": "https://x.test",
	}, harness.ClaudeCode)

	require.NoError(t, err)
	assert.Equal(t, HTTP, got.Transport)
}

func TestFromNativeRejectsEmptyEntries(t *testing.T) {
	_, err := FromNative("bad", map[string]any{"type": "stdio"}, harness.ClaudeCode)
	assert.Error(t, err)

	_, err = FromNative("bad", map[string]any{"type": "local", "command": []any{}}, harness.OpenCode)
	assert.Error(t, err)

	_, err = FromNative("bad", map[string]any{}, harness.ClaudeCode)
	assert.Error(t, err)
}

func TestEnvVarNames(t *testing.T) {
	d := Descriptor{
		Name:      "gh",
		Transport: Stdio,
		Command:   "npx",
		Args:      []string{"-y", "server", "--token", "${GITHUB_TOKEN}"},
		Env: map[string]string{
			"API_KEY":  "${SHARED_KEY}",
			"CACHE":    "${CACHE_DIR:-/tmp/cache}",
			"VERBATIM": "plain value",
		},
		EnvVars: []string{"EXTRA_SECRET"},
	}

	got := d.EnvVarNames()

	assert.Equal(t, []string{"CACHE_DIR", "EXTRA_SECRET", "GITHUB_TOKEN", "SHARED_KEY"}, got)
}

func TestCheckEnvReportsAllMissing(t *testing.T) {
	t.Setenv("REINS_TEST_PRESENT", "1")

	d := Descriptor{
		Name:      "gh",
		Transport: Stdio,
		Command:   "run",
		EnvVars:   []string{"REINS_TEST_PRESENT", "REINS_TEST_ABSENT_A", "REINS_TEST_ABSENT_B"},
	}

	err := d.CheckEnv()
	require.Error(t, err)
	assert.True(t, errors.Is(err, rerrors.ErrMissingEnvVar))

	var envErr *rerrors.EnvVarError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, []string{"REINS_TEST_ABSENT_A", "REINS_TEST_ABSENT_B"}, envErr.Missing)
}

func TestCheckEnvPassesWhenAllSet(t *testing.T) {
	t.Setenv("REINS_TEST_PRESENT", "1")

	d := Descriptor{Name: "ok", Transport: Stdio, Command: "run", EnvVars: []string{"REINS_TEST_PRESENT"}}

	assert.NoError(t, d.CheckEnv())
}

func TestParseTransportAliases(t *testing.T) {
	cases := map[string]Transport{
		"stdio":           Stdio,
		"local":           Stdio,
		"sse":             SSE,
		"http":            HTTP,
		"remote":          HTTP,
		"streamable_http": HTTP,
		"container":       Container,
	}
	for tag, want := range cases {
		got, err := ParseTransport(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}

	_, err := ParseTransport("builtin")
	assert.Error(t, err)
}
