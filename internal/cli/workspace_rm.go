package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var workspaceRmDryRun bool

// workspaceRmCmd deletes a workspace state file.
var workspaceRmCmd = &cobra.Command{
	Use:   "rm <workspace-id>",
	Short: "Delete a workspace state file",
	Long: `Delete a workspace state file and every branch configuration in it.

IMPORTANT: This only deletes saved configurations, not any files in the
workspace itself. Use 'snapbranch workspace ls' to find the ID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID := args[0]

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()

		result, err := s.eng.DeleteWorkspace(ctx, workspaceID, workspaceRmDryRun)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		// Handle dry-run output
		if workspaceRmDryRun {
			PrintSection("Dry Run: Delete Workspace")
			PrintInfo(fmt.Sprintf("Workspace ID: %s", result.WorkspaceID))
			PrintInfo(fmt.Sprintf("Workspace Path: %s", result.WorkspacePath))
			PrintInfo(fmt.Sprintf("Configurations: %d", result.ConfigCount))
			fmt.Println()
			PrintWarning("Run without --dry-run to delete")
			return nil
		}

		// Success output
		PrintSection("Delete Workspace")
		PrintSuccess(fmt.Sprintf("Deleted workspace state: %s", result.WorkspaceID))
		PrintInfo(fmt.Sprintf("Workspace path: %s", result.WorkspacePath))
		PrintInfo(fmt.Sprintf("Removed %s", PrintCount(result.ConfigCount, "configuration", "configurations")))

		return nil
	},
}

func init() {
	workspaceRmCmd.Flags().BoolVar(&workspaceRmDryRun, "dry-run", false, "Show what would be deleted without deleting")
}
