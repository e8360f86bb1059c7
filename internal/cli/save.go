package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var saveQuiet bool

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the editor state for the current branch",
	Long: `Capture the open files, the focused file and (if enabled) the allow-listed
workspace settings, and store them for the checked-out branch.

An earlier save for the same branch is replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := s.eng.SaveCurrent(context.Background(), saveQuiet)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(newResultView(res))
		}
		return resultError(res)
	},
}

func init() {
	saveCmd.Flags().BoolVarP(&saveQuiet, "quiet", "q", false, "Save without printing a confirmation")
}
