package cmd

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samhoang/reins/internal/connector"
	"github.com/samhoang/reins/internal/harness"
	"github.com/samhoang/reins/internal/install"
	"github.com/samhoang/reins/internal/profile"
)

var (
	installProfile string
	installForce   bool
	installName    string
	installSource  string
)

var installCmd = &cobra.Command{
	Use:   "install <kind> <path>",
	Short: "Install a component into a profile",
	Long: `Install a shareable component into a profile of the target
harness. Kind is one of skill, agent, command or connector. Skills are
directories containing a SKILL.md; agents and commands are single
files; connectors are JSON descriptor files.

If the target profile is active, the live config dir is updated too.

Examples:
  reins install skill ./skills/memory-safety --profile work
  reins install command ./review.md
  reins install connector ./github-mcp.json --harness goose --force`,
	Args: cobra.ExactArgs(2),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installProfile, "profile", "p", "", "Target profile (default: the active profile)")
	installCmd.Flags().BoolVarP(&installForce, "force", "f", false, "Overwrite an already-installed component")
	installCmd.Flags().StringVar(&installName, "name", "", "Override the component name")
	installCmd.Flags().StringVar(&installSource, "source", "", "Record where the component came from")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	paths, h, err := resolveTarget()
	if err != nil {
		return err
	}

	kind, err := parseResourceKind(args[0])
	if err != nil {
		return err
	}
	comp, err := buildComponent(kind, args[1])
	if err != nil {
		return err
	}
	if installName != "" {
		comp.Name = installName
	}
	comp.Source = installSource

	target := installProfile
	if target == "" {
		active, ok := profile.NewManager(paths, h).Active()
		if !ok {
			return fmt.Errorf("no active profile for %s: pass --profile", h.Kind().DisplayName())
		}
		target = active
	}

	exec := install.NewExecutor(paths, h)
	res, err := exec.Install(target, comp, install.Options{Force: installForce})
	if err != nil {
		return err
	}

	switch {
	case res.Skipped:
		fmt.Printf("Skipped %s %s: already installed (use --force to overwrite)\n", kind, res.Name)
	case res.Live:
		fmt.Printf("Installed %s %s into %s/%s (live)\n", kind, res.Name, h.ID(), target)
	default:
		fmt.Printf("Installed %s %s into %s/%s\n", kind, res.Name, h.ID(), target)
	}
	return nil
}

func parseResourceKind(s string) (harness.ResourceKind, error) {
	switch strings.ToLower(s) {
	case "skill":
		return harness.Skill, nil
	case "agent":
		return harness.Agent, nil
	case "command":
		return harness.Command, nil
	case "connector", "mcp":
		return harness.Connector, nil
	}
	return "", fmt.Errorf("unknown component kind %q (skill, agent, command, connector)", s)
}

func buildComponent(kind harness.ResourceKind, path string) (install.Component, error) {
	switch kind {
	case harness.Connector:
		return loadConnectorComponent(path)
	case harness.Skill:
		return loadDirComponent(kind, path)
	default:
		return loadFileComponent(kind, path)
	}
}

func loadDirComponent(kind harness.ResourceKind, dir string) (install.Component, error) {
	files := map[string][]byte{}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return install.Component{}, err
	}
	return install.Component{
		Kind:  kind,
		Name:  filepath.Base(filepath.Clean(dir)),
		Files: files,
	}, nil
}

func loadFileComponent(kind harness.ResourceKind, path string) (install.Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return install.Component{}, err
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return install.Component{
		Kind:  kind,
		Name:  name,
		Files: map[string][]byte{base: data},
	}, nil
}

// connectorSpec is the on-disk JSON form of a canonical descriptor.
type connectorSpec struct {
	Name      string            `json:"name"`
	Transport string            `json:"transport"`
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	URL       string            `json:"url,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Image     string            `json:"image,omitempty"`
	EnvVars   []string          `json:"envVars,omitempty"`
}

func loadConnectorComponent(path string) (install.Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return install.Component{}, err
	}
	var spec connectorSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return install.Component{}, fmt.Errorf("parse %s: %w", path, err)
	}
	transport, err := connector.ParseTransport(spec.Transport)
	if err != nil {
		return install.Component{}, fmt.Errorf("parse %s: %w", path, err)
	}

	name := spec.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return install.Component{
		Kind: harness.Connector,
		Name: name,
		Connector: &connector.Descriptor{
			Name:      name,
			Transport: transport,
			Command:   spec.Command,
			Args:      spec.Args,
			Env:       spec.Env,
			URL:       spec.URL,
			Headers:   spec.Headers,
			Image:     spec.Image,
			EnvVars:   spec.EnvVars,
		},
	}, nil
}
