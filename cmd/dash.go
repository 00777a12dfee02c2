package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samhoang/reins/internal/config"
	"github.com/samhoang/reins/internal/dash"
	"github.com/samhoang/reins/internal/harness"
	"github.com/samhoang/reins/internal/profile"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Interactive profile dashboard",
	Long: `Open a dashboard with one tab per harness. Pick a profile and
press enter to switch to it.`,
	Args: cobra.NoArgs,
	RunE: runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

func runDash(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	if err := paths.EnsureLayout(); err != nil {
		return err
	}

	detector := harness.SystemDetector{}
	var tabs []dash.Tab
	for _, kind := range harness.Kinds() {
		h, err := harness.Locate(kind)
		if err != nil {
			return err
		}
		infos, err := profile.NewManager(paths, h).List()
		if err != nil {
			return err
		}
		status := harness.Detect(detector, h)
		if status == harness.NotInstalled && len(infos) == 0 {
			continue
		}
		tabs = append(tabs, dash.Tab{Kind: kind, Status: status, Profiles: infos})
	}
	if len(tabs) == 0 {
		fmt.Println("No harnesses detected and no profiles stored yet.")
		return nil
	}

	sel, err := dash.Run(tabs)
	if err != nil {
		return err
	}
	if sel == nil {
		return nil
	}

	h, err := harness.Locate(sel.Kind)
	if err != nil {
		return err
	}
	if err := profile.NewManager(paths, h).Switch(sel.Profile); err != nil {
		return err
	}
	fmt.Printf("Switched %s to profile %s\n", sel.Kind.DisplayName(), sel.Profile)
	return nil
}
