package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save live edits into the active profile",
	Long: `Capture the live config dir into the currently active profile
without switching. Normally this happens automatically on every switch;
save is for making the stored profile current right now.`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	mgr, h, err := newManager()
	if err != nil {
		return err
	}

	if err := mgr.Save(); err != nil {
		return err
	}
	active, _ := mgr.Active()
	fmt.Printf("Saved live config of %s into profile %s\n", h.Kind().DisplayName(), active)
	return nil
}
