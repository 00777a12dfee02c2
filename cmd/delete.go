package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <profile>",
	Short: "Delete a profile",
	Long: `Delete a stored profile. The active profile cannot be deleted;
switch to another profile first.

Examples:
  reins delete old-setup
  reins delete old-setup --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	mgr, h, err := newManager()
	if err != nil {
		return err
	}

	name := args[0]
	if !deleteForce {
		fmt.Printf("Delete profile %s/%s? [y/N] ", h.ID(), name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := mgr.Delete(name); err != nil {
		return err
	}
	fmt.Printf("Deleted profile %s/%s\n", h.ID(), name)
	return nil
}
