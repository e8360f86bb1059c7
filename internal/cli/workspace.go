package cli

import (
	"github.com/spf13/cobra"
)

// workspaceCmd is the parent command for workspace management.
var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
	Long: `Manage the per-workspace state files that hold branch configurations.
Every workspace that has saved a configuration has one.`,
}

func init() {
	workspaceCmd.AddCommand(workspaceLsCmd)
	workspaceCmd.AddCommand(workspaceRmCmd)
}
