package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use <profile>",
	Short: "Switch to a profile",
	Long: `Switch the live config dir of the target harness to a profile.
The current live state is saved back into the active profile first, so
edits made since the last switch are never lost. Switching to the
already-active profile does nothing.

Examples:
  reins use work
  reins use personal --harness opencode`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

func init() {
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	mgr, h, err := newManager()
	if err != nil {
		return err
	}

	// First run: preserve whatever is live before any switch can clear it.
	if err := mgr.EnsureDefault(); err != nil {
		return err
	}

	name := args[0]
	if active, ok := mgr.Active(); ok && active == name {
		fmt.Printf("Profile %s/%s is already active\n", h.ID(), name)
		return nil
	}

	if err := mgr.Switch(name); err != nil {
		return err
	}
	fmt.Printf("Switched %s to profile %s\n", h.Kind().DisplayName(), name)
	return nil
}
