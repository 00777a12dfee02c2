package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samhoang/reins/internal/config"
	"github.com/samhoang/reins/internal/harness"
	"github.com/samhoang/reins/internal/profile"
)

var Version = "dev"

var harnessFlag string

var rootCmd = &cobra.Command{
	Use:   "reins",
	Short: "Profile manager for AI coding harnesses",
	Long: `reins snapshots and switches configuration profiles for AI coding
harnesses (Claude Code, OpenCode, Goose, Amp, Copilot CLI, Crush).
Each profile is a complete copy of a harness config directory; switching
saves your live edits into the old profile before restoring the new one.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&harnessFlag, "harness", "H", "",
		"Target harness (claude-code, opencode, goose, amp, copilot, crush)")
}

// resolveTarget resolves the paths, state and harness a command acts
// on, honoring --harness and falling back to the configured default.
func resolveTarget() (*config.Paths, *harness.Harness, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, nil, err
	}
	if err := paths.EnsureLayout(); err != nil {
		return nil, nil, err
	}

	id := harnessFlag
	if id == "" {
		st, err := config.LoadState(paths.StatePath())
		if err != nil {
			return nil, nil, err
		}
		id = st.DefaultHarness
	}

	kind, err := harness.ParseKind(id)
	if err != nil {
		return nil, nil, err
	}
	h, err := harness.Locate(kind)
	if err != nil {
		return nil, nil, err
	}
	return paths, h, nil
}

func newManager() (*profile.Manager, *harness.Harness, error) {
	paths, h, err := resolveTarget()
	if err != nil {
		return nil, nil, err
	}
	return profile.NewManager(paths, h), h, nil
}
