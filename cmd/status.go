package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samhoang/reins/internal/config"
	"github.com/samhoang/reins/internal/harness"
	"github.com/samhoang/reins/internal/profile"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show all harnesses and their active profiles",
	Long: `Show every supported harness, whether it is installed, and which
profile is active for it.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	st, err := config.LoadState(paths.StatePath())
	if err != nil {
		return err
	}

	detector := harness.SystemDetector{}
	for _, kind := range harness.Kinds() {
		h, err := harness.Locate(kind)
		if err != nil {
			return err
		}
		status := harness.Detect(detector, h)

		active := "-"
		if name, ok := st.ActiveProfileFor(kind.ID()); ok {
			active = name
		}

		count := 0
		if infos, err := profile.NewManager(paths, h).List(); err == nil {
			count = len(infos)
		}

		mark := " "
		if kind.ID() == st.DefaultHarness {
			mark = "*"
		}
		fmt.Printf(" %s %-14s %-16s active: %-16s profiles: %d\n",
			mark, kind.DisplayName(), status, active, count)
	}
	return nil
}
