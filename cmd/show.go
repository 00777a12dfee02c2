package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samhoang/reins/internal/harness"
)

var showCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show a profile's contents",
	Long: `Show one profile in detail: metadata, resources by kind, and
connector names.

Examples:
  reins show work
  reins show personal --harness goose`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	mgr, h, err := newManager()
	if err != nil {
		return err
	}

	d, err := mgr.Show(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Profile: %s/%s\n", h.ID(), d.Info.Name)
	if d.Info.Description != "" {
		fmt.Printf("Description: %s\n", d.Info.Description)
	}
	if d.Info.Active {
		fmt.Println("Status: active")
	}
	if !d.Info.Created.IsZero() {
		fmt.Printf("Created: %s\n", d.Info.Created.Format("2006-01-02 15:04"))
	}
	if !d.Info.Updated.IsZero() {
		fmt.Printf("Updated: %s\n", d.Info.Updated.Format("2006-01-02 15:04"))
	}
	fmt.Printf("Files: %d\n", d.Info.Files)

	for _, kind := range harness.ResourceKinds() {
		names, ok := d.Resources[kind]
		if !ok {
			continue
		}
		fmt.Printf("\n%ss (%d):\n", kind, len(names))
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
	}

	if len(d.Connectors) > 0 {
		fmt.Printf("\nConnectors (%d):\n", len(d.Connectors))
		for _, name := range d.Connectors {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}
