package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createDescription string
	createFromCurrent bool
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Long: `Create a new profile for the target harness. With --from-current
the live config directory is captured as the profile's content and the
profile becomes active; without it the profile starts empty.

Examples:
  reins create work --from-current -d "day job setup"
  reins create scratch`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Profile description")
	createCmd.Flags().BoolVar(&createFromCurrent, "from-current", false, "Capture the live config dir as the profile content")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	mgr, h, err := newManager()
	if err != nil {
		return err
	}

	name := args[0]
	if err := mgr.Create(name, createDescription, createFromCurrent); err != nil {
		return err
	}

	if createFromCurrent {
		fmt.Printf("Created profile %s/%s from the live config dir (now active)\n", h.ID(), name)
	} else {
		fmt.Printf("Created empty profile %s/%s\n", h.ID(), name)
	}
	return nil
}
