package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/samhoang/reins/internal/config"
	"github.com/samhoang/reins/internal/harness"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set reins settings",
	Long: `Read and write the persisted reins settings.

Keys:
  default-harness   harness assumed when --harness is omitted
  editor            editor for edit-style commands
  profile-marker    write a marker file naming the active profile (true/false)

Examples:
  reins config get default-harness
  reins config set default-harness goose
  reins config set profile-marker true`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func loadStateForConfig() (*config.State, string, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, "", err
	}
	st, err := config.LoadState(paths.StatePath())
	if err != nil {
		return nil, "", err
	}
	return st, paths.StatePath(), nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	st, _, err := loadStateForConfig()
	if err != nil {
		return err
	}

	switch args[0] {
	case "default-harness":
		fmt.Println(st.DefaultHarness)
	case "editor":
		fmt.Println(st.Editor)
	case "profile-marker":
		fmt.Println(st.ProfileMarker)
	default:
		return fmt.Errorf("unknown config key %q", args[0])
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	st, path, err := loadStateForConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "default-harness":
		kind, err := harness.ParseKind(value)
		if err != nil {
			return err
		}
		st.DefaultHarness = kind.ID()
	case "editor":
		st.Editor = value
	case "profile-marker":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("profile-marker wants true or false, got %q", value)
		}
		st.ProfileMarker = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := st.Save(path); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
