package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles for a harness",
	Long: `List all stored profiles for the target harness. The active
profile is marked with *.

Examples:
  reins list
  reins list --harness goose`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	mgr, h, err := newManager()
	if err != nil {
		return err
	}

	infos, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(infos) == 0 {
		fmt.Printf("No profiles for %s. Create one with 'reins create <name> --from-current'\n", h.Kind().DisplayName())
		return nil
	}

	fmt.Printf("Profiles for %s:\n", h.Kind().DisplayName())
	for _, info := range infos {
		marker := " "
		if info.Active {
			marker = "*"
		}
		line := fmt.Sprintf(" %s %-20s %3d files", marker, info.Name, info.Files)
		if info.Description != "" {
			line += "  " + info.Description
		}
		fmt.Println(line)
	}
	return nil
}
