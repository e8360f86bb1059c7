package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// workspaceLsCmd lists all workspaces.
var workspaceLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all workspaces",
	Long:  `Display all workspaces that have saved branch configurations.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()

		result, err := s.eng.ListWorkspaces(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if len(result.Workspaces) == 0 {
			PrintSection("Workspaces")
			PrintEmptyState("No workspaces found")
			return nil
		}

		PrintSection("Workspaces")
		rows := make([][]string, 0, len(result.Workspaces))
		for _, ws := range result.Workspaces {
			currentMark := " "
			if ws.WorkspacePath == s.root {
				currentMark = "*"
			}
			lastSeen := "-"
			if !ws.LastSeen.IsZero() {
				lastSeen = ws.LastSeen.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				currentMark,
				ws.WorkspaceID,
				ws.WorkspacePath,
				fmt.Sprintf("%d", ws.ConfigCount),
				lastSeen,
			})
		}
		PrintTable([]string{"", "Workspace ID", "Workspace Path", "Configs", "Last Seen"}, rows)
		return nil
	},
}
