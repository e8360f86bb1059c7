package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [branch]",
	Short: "Reopen the files saved for a branch",
	Long: `Apply the configuration saved for the current branch, or for the given branch.

Settings are written first. If the configuration lists files, every open editor
is closed and the saved files are reopened in order; unsaved editor state is
discarded. Files that no longer exist are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		var res branchconfig.Result
		if len(args) == 1 {
			res = s.eng.RestoreBranch(ctx, args[0])
		} else {
			res, err = s.eng.RestoreCurrent(ctx)
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			return outputJSON(newResultView(res))
		}

		switch res.Outcome {
		case branchconfig.OutcomeNoOp:
			PrintEmptyState("No configuration found for branch: " + res.Branch)
		case branchconfig.OutcomePartial:
			items := make([]string, 0, len(res.Failures))
			for _, f := range res.Failures {
				items = append(items, string(f.Kind)+" "+f.Item+": "+f.Err.Error())
			}
			PrintWarning("Some items could not be restored:")
			PrintList(items, 1)
		}
		return resultError(res)
	},
}
