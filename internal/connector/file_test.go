package connector

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/samhoang/reins/internal/errors"
	"github.com/samhoang/reins/internal/harness"
)

func TestReadFileMissingIsEmpty(t *testing.T) {
	h := harness.New(harness.ClaudeCode, t.TempDir())

	got, err := ReadFile(h, filepath.Join(t.TempDir(), ".mcp.json"))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadFileEmptyIsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mcp.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	h := harness.New(harness.ClaudeCode, dir)
	got, err := ReadFile(h, path)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadFileClaudeCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mcp.json")
	content := `{"mcpServers": {"fs": {"type": "stdio", "command": "npx", "args": ["-y", "server"]}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := harness.New(harness.ClaudeCode, dir)
	got, err := ReadFile(h, path)

	require.NoError(t, err)
	require.Contains(t, got, "fs")
	assert.Equal(t, Stdio, got["fs"].Transport)
	assert.Equal(t, "npx", got["fs"].Command)
}

func TestReadFileOpenCodeJSONC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opencode.jsonc")
	content := `{
  // servers
  "mcp": {
    "fs": {"type": "local", "command": ["npx", "-y", "server"]}
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := harness.New(harness.OpenCode, dir)
	got, err := ReadFile(h, path)

	require.NoError(t, err)
	require.Contains(t, got, "fs")
	assert.Equal(t, "npx", got["fs"].Command)
	assert.Equal(t, []string{"-y", "server"}, got["fs"].Args)
}

func TestReadFileGooseSkipsBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `extensions:
  developer:
    enabled: true
    type: builtin
  fs:
    type: stdio
    cmd: uvx
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := harness.New(harness.Goose, dir)
	got, err := ReadFile(h, path)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "fs")
}

func TestReadFileMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mcp.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	h := harness.New(harness.ClaudeCode, dir)
	_, err := ReadFile(h, path)

	var pe *rerrors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
}

func TestWriteFilePreservesUnrelatedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mcp.json")
	existing := `{"model": "opus", "mcpServers": {"old": {"type": "stdio", "command": "old-cmd"}}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	h := harness.New(harness.ClaudeCode, dir)
	err := WriteFile(h, path, []Descriptor{
		{Name: "fs", Transport: Stdio, Command: "npx"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var root map[string]any
	require.NoError(t, json.Unmarshal(data, &root))

	assert.Equal(t, "opus", root["model"])
	servers := root["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "old")
	assert.Contains(t, servers, "fs")
}

func TestWriteFileCreatesMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "crush.json")

	h := harness.New(harness.Crush, dir)
	err := WriteFile(h, path, []Descriptor{
		{Name: "web", Transport: HTTP, URL: "https://x.test/mcp"},
	})
	require.NoError(t, err)

	got, err := ReadFile(h, path)
	require.NoError(t, err)
	require.Contains(t, got, "web")
	assert.Equal(t, HTTP, got["web"].Transport)
}

func TestWriteFileAmpTopLevelKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	h := harness.New(harness.Amp, dir)
	err := WriteFile(h, path, []Descriptor{
		{Name: "fs", Transport: Stdio, Command: "npx"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var root map[string]any
	require.NoError(t, json.Unmarshal(data, &root))

	require.Contains(t, root, "amp.mcpServers")
	servers := root["amp.mcpServers"].(map[string]any)
	assert.Contains(t, servers, "fs")
}

func TestWriteFileGoosePreservesComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `# main configuration
GOOSE_PROVIDER: anthropic

# extension section
extensions:
  developer:
    enabled: true
    type: builtin
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := harness.New(harness.Goose, dir)
	err := WriteFile(h, path, []Descriptor{
		{Name: "fs", Transport: Stdio, Command: "uvx", Args: []string{"server"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# main configuration")
	assert.Contains(t, out, "# extension section")
	assert.Contains(t, out, "developer")
	assert.Contains(t, out, "fs:")
	assert.Contains(t, out, "cmd: uvx")

	got, err := ReadFile(h, path)
	require.NoError(t, err)
	assert.Contains(t, got, "fs")
}

func TestWriteFileGooseCreatesExtensionsSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("GOOSE_PROVIDER: anthropic\n"), 0o644))

	h := harness.New(harness.Goose, dir)
	err := WriteFile(h, path, []Descriptor{
		{Name: "fs", Transport: Stdio, Command: "uvx"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GOOSE_PROVIDER: anthropic")
	assert.Contains(t, string(data), "extensions:")
}

func TestWriteFileGooseReplacesExistingEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `extensions:
  fs:
    type: stdio
    cmd: old-command
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := harness.New(harness.Goose, dir)
	err := WriteFile(h, path, []Descriptor{
		{Name: "fs", Transport: Stdio, Command: "new-command"},
	})
	require.NoError(t, err)

	got, err := ReadFile(h, path)
	require.NoError(t, err)
	assert.Equal(t, "new-command", got["fs"].Command)

	data, _ := os.ReadFile(path)
	assert.NotContains(t, string(data), "old-command")
}

func TestRemoveFromFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mcp.json")
	content := `{"model": "opus", "mcpServers": {"fs": {"command": "c"}, "web": {"type": "http", "url": "https://x.test"}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := harness.New(harness.ClaudeCode, dir)
	require.NoError(t, RemoveFromFile(h, path, "fs"))

	got, err := ReadFile(h, path)
	require.NoError(t, err)
	assert.NotContains(t, got, "fs")
	assert.Contains(t, got, "web")

	var root map[string]any
	data, _ := os.ReadFile(path)
	require.NoError(t, json.Unmarshal(data, &root))
	assert.Equal(t, "opus", root["model"])

	// absent names and missing files are no-ops
	require.NoError(t, RemoveFromFile(h, path, "ghost"))
	require.NoError(t, RemoveFromFile(h, filepath.Join(dir, "nope.json"), "fs"))
}

func TestRemoveFromFileGooseKeepsComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `# keep me
extensions:
  fs:
    type: stdio
    cmd: uvx
  web:
    type: sse
    uri: https://x.test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := harness.New(harness.Goose, dir)
	require.NoError(t, RemoveFromFile(h, path, "fs"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "# keep me")
	assert.NotContains(t, out, "uvx")
	assert.Contains(t, out, "web")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers": {"fs": {"command": "c"}}}`), 0o644))

	h := harness.New(harness.ClaudeCode, dir)

	ok, err := Exists(h, path, "fs")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(h, path, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Exists(h, filepath.Join(dir, "nope.json"), "fs")
	require.NoError(t, err)
	assert.False(t, ok)
}
