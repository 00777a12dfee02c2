package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseKindAliases(t *testing.T) {
	cases := map[string]Kind{
		"claude-code": ClaudeCode,
		"claude":      ClaudeCode,
		"cc":          ClaudeCode,
		"CC":          ClaudeCode,
		"opencode":    OpenCode,
		"oc":          OpenCode,
		"goose":       Goose,
		"amp":         Amp,
		"amp-code":    Amp,
		"copilot":     Copilot,
		"crush":       Crush,
	}

	for input, want := range cases {
		got, err := ParseKind(input)
		if err != nil {
			t.Errorf("ParseKind(%q) error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseKind("cursor"); err == nil {
		t.Error("ParseKind(cursor) should fail")
	}
}

func TestResolveUsesCanonicalJoin(t *testing.T) {
	h := New(ClaudeCode, "/home/u/.claude")

	rp, ok := h.Resolve(Skill)
	if !ok {
		t.Fatal("Resolve(Skill) = false, want true")
	}
	if rp.Path != filepath.Join("/home/u/.claude", "skills") {
		t.Errorf("Path = %q, want config_dir/skills", rp.Path)
	}
	if rp.Structure != Nested || rp.Entry != "SKILL.md" {
		t.Errorf("Skill structure = %v/%q, want Nested/SKILL.md", rp.Structure, rp.Entry)
	}
}

func TestResolveOpenCodeSingularDirs(t *testing.T) {
	h := New(OpenCode, "/cfg/opencode")

	rp, ok := h.Resolve(Command)
	if !ok {
		t.Fatal("Resolve(Command) = false, want true")
	}
	if filepath.Base(rp.Path) != "command" {
		t.Errorf("OpenCode command dir = %q, want singular 'command'", rp.Path)
	}
}

func TestResolveUnsupportedKindReturnsFalse(t *testing.T) {
	h := New(Goose, "/cfg/goose")

	if _, ok := h.Resolve(Agent); ok {
		t.Error("Goose does not support agents; Resolve must not guess")
	}

	h = New(Crush, "/cfg/crush")
	if _, ok := h.Resolve(Skill); ok {
		t.Error("Crush does not support skills; Resolve must not guess")
	}
}

func TestConnectorFileTable(t *testing.T) {
	cases := []struct {
		kind   Kind
		name   string
		key    string
		format Format
	}{
		{ClaudeCode, ".mcp.json", "mcpServers", JSON},
		{OpenCode, "opencode.jsonc", "mcp", JSONC},
		{Goose, "config.yaml", "extensions", YAML},
		{Amp, "settings.json", "amp.mcpServers", JSON},
		{Copilot, "mcp-config.json", "mcpServers", JSON},
		{Crush, "crush.json", "mcp", JSON},
	}

	for _, tc := range cases {
		h := New(tc.kind, "/cfg")
		cf := h.ConnectorFile()
		if cf.Name != tc.name || cf.Key != tc.key || cf.Format != tc.format {
			t.Errorf("%s connector file = %+v, want {%s %s %v}", tc.kind, cf, tc.name, tc.key, tc.format)
		}
	}
}

func TestLocateHonorsEnvOverride(t *testing.T) {
	t.Setenv("GOOSE_CONFIG_DIR", "/custom/goose")

	h, err := Locate(Goose)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if h.ConfigDir() != "/custom/goose" {
		t.Errorf("ConfigDir = %q, want /custom/goose", h.ConfigDir())
	}
}

func TestListResourcesFlat(t *testing.T) {
	dir := t.TempDir()
	h := New(ClaudeCode, dir)

	cmdDir := filepath.Join(dir, "commands")
	if err := os.MkdirAll(cmdDir, 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(cmdDir, "review.md"), []byte("# review"), 0o644)
	os.WriteFile(filepath.Join(cmdDir, "deploy.md"), []byte("# deploy"), 0o644)
	os.WriteFile(filepath.Join(cmdDir, "notes.txt"), []byte("ignored"), 0o644)

	got, err := h.ListResources(Command)
	if err != nil {
		t.Fatalf("ListResources() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "deploy" || got[1].Name != "review" {
		t.Errorf("names = %q, %q, want deploy, review", got[0].Name, got[1].Name)
	}
}

func TestListResourcesNestedRequiresEntryFile(t *testing.T) {
	dir := t.TempDir()
	h := New(ClaudeCode, dir)

	skillDir := filepath.Join(dir, "skills")
	os.MkdirAll(filepath.Join(skillDir, "art"), 0o755)
	os.WriteFile(filepath.Join(skillDir, "art", "SKILL.md"), []byte("# Art"), 0o644)
	os.MkdirAll(filepath.Join(skillDir, "empty"), 0o755)

	got, err := h.ListResources(Skill)
	if err != nil {
		t.Fatalf("ListResources() error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "art" {
		t.Errorf("got %v, want single 'art' entry", got)
	}
}

func TestListResourcesMissingDirIsEmpty(t *testing.T) {
	h := New(ClaudeCode, t.TempDir())

	got, err := h.ListResources(Skill)
	if err != nil {
		t.Fatalf("ListResources() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestDualSourceUnionDirectoryShadowsConfig(t *testing.T) {
	dir := t.TempDir()
	h := New(OpenCode, dir)

	cmdDir := filepath.Join(dir, "command")
	os.MkdirAll(cmdDir, 0o755)
	os.WriteFile(filepath.Join(cmdDir, "review.md"), []byte("# review"), 0o644)

	config := `{
  // user config
  "command": {
    "review": {"template": "old"},
    "triage": {"template": "t"}
  }
}`
	os.WriteFile(filepath.Join(dir, "opencode.jsonc"), []byte(config), 0o644)

	got, err := h.ListResources(Command)
	if err != nil {
		t.Fatalf("ListResources() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (union by name)", len(got))
	}
	if got[0].Name != "review" || got[0].FromConfig {
		t.Errorf("first = %+v, want directory-based 'review'", got[0])
	}
	if got[1].Name != "triage" || !got[1].FromConfig {
		t.Errorf("second = %+v, want config-embedded 'triage'", got[1])
	}
}

func TestListConfigEmbeddedMissingConfig(t *testing.T) {
	h := New(OpenCode, t.TempDir())

	names, err := h.ListConfigEmbedded(Command)
	if err != nil {
		t.Fatalf("ListConfigEmbedded() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}
}

func TestStripJSONC(t *testing.T) {
	src := `{
  // line comment
  "a": "val // not a comment",
  /* block
     comment */
  "b": "c:/*path*/d"
}`
	stripped := StripJSONC(src)

	for _, unwanted := range []string{"line comment", "block\n     comment"} {
		if strings.Contains(stripped, unwanted) {
			t.Errorf("stripped output still contains %q", unwanted)
		}
	}
	if !strings.Contains(stripped, "val // not a comment") {
		t.Error("comment markers inside strings must survive")
	}
	if !strings.Contains(stripped, "c:/*path*/d") {
		t.Error("block markers inside strings must survive")
	}
}
