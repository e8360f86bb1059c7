package cli

import (
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Pause or resume automatic switching",
	Long: `Pause or resume saving and restoring on branch changes. Manual save and
restore keep working while paused. The setting is shared by all workspaces.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := s.eng.ToggleAutoSwitch()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		return nil
	},
}
