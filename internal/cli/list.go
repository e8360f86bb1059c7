package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/snapbranch/internal/engine"
)

var listInteractive bool

// Actions offered by the interactive list.
const (
	listActionRestore = "restore"
	listActionDelete  = "delete"
	listActionSwitch  = "switch"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved branch configurations",
	Long: `List every branch configuration saved for this workspace.

With --interactive, pick a configuration and restore or delete it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		result, err := s.eng.List(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if len(result.Configs) == 0 {
			PrintEmptyState("No branch configurations found")
			return nil
		}

		if listInteractive {
			if !stdinIsTerminal() {
				return errors.New("--interactive requires a terminal")
			}
			return pickConfiguration(ctx, s, result)
		}

		printConfigTable(result)
		return nil
	},
}

func printConfigTable(result *engine.ListResult) {
	PrintSection("Branch Configurations")
	rows := make([][]string, 0, len(result.Configs))
	for _, c := range result.Configs {
		current := " "
		if c.Current {
			current = "*"
		}
		rows = append(rows, []string{
			current,
			c.Branch,
			fmt.Sprintf("%d", c.Files),
			fmt.Sprintf("%d", c.Settings),
			c.SavedAt.Format("2006-01-02 15:04:05"),
		})
	}
	PrintTable([]string{"", "Branch", "Files", "Settings", "Saved"}, rows)
	fmt.Println()
	PrintInfo(PrintCount(len(result.Configs), "configuration", "configurations"))
}

func pickConfiguration(ctx context.Context, s *session, result *engine.ListResult) error {
	options := make([]huh.Option[string], 0, len(result.Configs))
	for _, c := range result.Configs {
		label := fmt.Sprintf("%s (%s, %s)", c.Branch,
			PrintCount(c.Files, "file", "files"),
			c.SavedAt.Format("2006-01-02 15:04"))
		options = append(options, huh.NewOption(label, c.Branch))
	}

	var branch string
	err := huh.NewSelect[string]().
		Title("Branch configurations").
		Options(options...).
		Value(&branch).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	var action string
	err = huh.NewSelect[string]().
		Title(fmt.Sprintf("Branch %q", branch)).
		Options(
			huh.NewOption("Restore this configuration", listActionRestore),
			huh.NewOption("Delete this configuration", listActionDelete),
			huh.NewOption("Switch to this branch", listActionSwitch),
		).
		Value(&action).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	switch action {
	case listActionRestore:
		return resultError(s.eng.RestoreBranch(ctx, branch))
	case listActionDelete:
		ok, err := confirmDelete(branch, false)
		if err != nil || !ok {
			return err
		}
		return resultError(s.eng.DeleteBranch(ctx, branch))
	case listActionSwitch:
		PrintInfo("Use Git commands to switch to branch: " + branch)
	}
	return nil
}

func init() {
	listCmd.Flags().BoolVarP(&listInteractive, "interactive", "i", false, "Choose a configuration to restore or delete")
}
