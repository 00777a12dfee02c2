package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the live config dir",
	Long: `Copy the live config dir of the target harness into the backups
area. Only the newest backups are kept; older ones are pruned.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	mgr, _, err := newManager()
	if err != nil {
		return err
	}

	dest, err := mgr.Backup()
	if err != nil {
		return err
	}
	fmt.Printf("Backed up to %s\n", dest)
	return nil
}
