package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
)

// errNeedsConfirmation is returned when a destructive command cannot prompt.
var errNeedsConfirmation = errors.New("refusing to delete without confirmation; pass --yes")

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [branch]",
	Short: "Delete the configuration saved for a branch",
	Long: `Delete the configuration saved for the current branch, or for the given branch.
Deleting a branch that has no configuration is not an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		branch := ""
		if len(args) == 1 {
			branch = args[0]
		} else {
			current, ok := s.eng.CurrentBranch()
			if !ok {
				// Reported through the notifier.
				_, err := s.eng.DeleteCurrent(ctx)
				return err
			}
			branch = current
		}

		ok, err := confirmDelete(branch, deleteYes)
		if err != nil {
			return err
		}
		if !ok {
			PrintInfo("Cancelled")
			return nil
		}

		res := s.eng.DeleteBranch(ctx, branch)
		if jsonOutput {
			return outputJSON(newResultView(res))
		}
		return resultError(res)
	},
}

// confirmDelete asks before deleting unless yes is set. Without a terminal
// it refuses instead of guessing.
func confirmDelete(branch string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if jsonOutput || !stdinIsTerminal() {
		return false, errNeedsConfirmation
	}

	confirmed := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete configuration for branch %q?", branch)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}

// resultView is the JSON form of a store result.
type resultView struct {
	Branch   string        `json:"branch,omitempty"`
	Outcome  string        `json:"outcome"`
	Failures []failureView `json:"failures,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type failureView struct {
	Kind  string `json:"kind"`
	Item  string `json:"item,omitempty"`
	Error string `json:"error"`
}

func newResultView(res branchconfig.Result) resultView {
	v := resultView{Branch: res.Branch, Outcome: res.Outcome.String()}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	for _, f := range res.Failures {
		v.Failures = append(v.Failures, failureView{Kind: string(f.Kind), Item: f.Item, Error: f.Err.Error()})
	}
	return v
}
