package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Save and restore automatically on branch changes",
	Long: `Run in the foreground and react to branch changes in this workspace.

On every switch the configuration of the branch being left is saved (if
autoSave is on) and the configuration of the new branch is restored (if
autoRestore is on). Nothing happens while auto-switching is paused.

If daemon.autoSaveInterval is set in config.yaml, the current branch is also
saved quietly on that period. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Rebind when the workspace gains or loses its repository.
		folders := []string{s.root}
		sub, err := s.git.WatchFolder(s.root, func() {
			s.reactor.UpdateFolders(folders)
		})
		if err != nil {
			s.logger.Warn("failed to watch workspace folder", "root", s.root, "error", err)
		} else {
			defer sub.Close()
		}

		if !jsonOutput {
			if branch, ok := s.eng.CurrentBranch(); ok {
				PrintInfo(fmt.Sprintf("Watching %s on branch %s", s.root, branch))
			} else {
				PrintWarning(fmt.Sprintf("Watching %s; no Git branch detected", s.root))
			}
			if !s.eng.AutoSwitchEnabled() {
				PrintWarning("Auto-switching is paused; run 'snapbranch toggle' to resume")
			}
		}

		s.logger.Info("watch started", "root", s.root, "autoSaveInterval", s.cfg.Daemon.AutoSaveInterval)
		err = s.eng.Run(ctx, s.cfg.Daemon.AutoSaveInterval)
		s.logger.Info("watch stopped")
		return err
	},
}
