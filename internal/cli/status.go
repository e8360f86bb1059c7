package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the branch and whether it has a saved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := s.eng.Status(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if line := renderStatusLine(result.Line, stdoutIsTerminal()); line != "" {
			fmt.Println(line)
			fmt.Println()
		}

		PrintLabelValue("Workspace", result.WorkspaceRoot)
		if result.Repository != "" && result.Repository != result.WorkspaceRoot {
			PrintLabelValue("Repository", result.Repository)
		}
		if result.Branch == "" {
			PrintLabelValueWithColor("Branch", "none", warningColor)
		} else {
			PrintLabelValue("Branch", result.Branch)
		}
		if result.Saved {
			PrintLabelValueWithColor("Configuration", "saved", successColor)
		} else {
			PrintLabelValueWithColor("Configuration", "not saved", dimColor)
		}
		if result.AutoSwitch {
			PrintLabelValueWithColor("Auto-switch", "enabled", successColor)
		} else {
			PrintLabelValueWithColor("Auto-switch", "paused", warningColor)
		}
		PrintLabelValue("Saved branches", fmt.Sprintf("%d", result.ConfigCount))
		return nil
	},
}
