package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samhoang/reins/internal/install"
	"github.com/samhoang/reins/internal/profile"
)

var uninstallProfile string

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <kind> <name>",
	Short: "Remove an installed component from a profile",
	Long: `Remove a component that was installed with 'reins install'. Only
the files recorded at install time are deleted; anything else in the
profile is left alone.

Examples:
  reins uninstall skill memory-safety --profile work
  reins uninstall connector github`,
	Args: cobra.ExactArgs(2),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().StringVarP(&uninstallProfile, "profile", "p", "", "Target profile (default: the active profile)")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	paths, h, err := resolveTarget()
	if err != nil {
		return err
	}

	kind, err := parseResourceKind(args[0])
	if err != nil {
		return err
	}

	target := uninstallProfile
	if target == "" {
		active, ok := profile.NewManager(paths, h).Active()
		if !ok {
			return fmt.Errorf("no active profile for %s: pass --profile", h.Kind().DisplayName())
		}
		target = active
	}

	exec := install.NewExecutor(paths, h)
	if err := exec.Uninstall(target, kind, args[1]); err != nil {
		return err
	}
	fmt.Printf("Removed %s %s from %s/%s\n", kind, args[1], h.ID(), target)
	return nil
}
