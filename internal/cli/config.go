package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/snapbranch/internal/config"
)

// configView is the JSON form of the config command.
type configView struct {
	Path     string              `json:"path"`
	Features config.Features     `json:"features"`
	Daemon   config.DaemonConfig `json:"daemon"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the feature toggles",
	Long: `Show the toggles read from config.yaml. Edits to the file apply to the next
save or restore; a running watch picks them up without restarting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get config paths: %w", err)
		}
		cfg, err := config.LoadFile(paths.Config)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(configView{Path: paths.Config, Features: cfg.Features, Daemon: cfg.Daemon})
		}

		PrintSection("Configuration")
		PrintLabelValue("File", paths.Config)
		fmt.Println()
		printToggle("autoSave", cfg.Features.AutoSave)
		printToggle("autoRestore", cfg.Features.AutoRestore)
		printToggle("includeOpenFiles", cfg.Features.IncludeOpenFiles)
		printToggle("includeEditorLayout", cfg.Features.IncludeEditorLayout)
		printToggle("includeWorkspaceSettings", cfg.Features.IncludeWorkspaceSettings)
		printToggle("showStatusBar", cfg.Features.ShowStatusBar)
		fmt.Println()
		interval := "off"
		if cfg.Daemon.AutoSaveInterval > 0 {
			interval = cfg.Daemon.AutoSaveInterval.String()
		}
		PrintLabelValue("daemon.autoSaveInterval", interval)
		PrintLabelValue("daemon.rebindDelay", cfg.Daemon.RebindDelay.String())
		return nil
	},
}

func printToggle(name string, on bool) {
	if on {
		PrintLabelValueWithColor(name, "on", successColor)
		return
	}
	PrintLabelValueWithColor(name, "off", dimColor)
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write config.yaml with the default toggles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get config paths: %w", err)
		}
		if err := paths.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to ensure directories: %w", err)
		}

		written, err := config.WriteDefault(paths.Config)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{"path": paths.Config, "written": written})
		}
		if written {
			PrintSuccess("Wrote " + paths.Config)
		} else {
			PrintInfo(paths.Config + " already exists")
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get config paths: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), paths.Config)
		return err
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
