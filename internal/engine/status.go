package engine

import (
	"context"

	"github.com/danieljhkim/snapbranch/internal/status"
)

// Status reports the branch, its saved state and the rendered status line.
func (e *Engine) Status(ctx context.Context) (*StatusResult, error) {
	result := &StatusResult{
		WorkspaceRoot: e.workspaceRoot,
		Available:     e.branches.IsAvailable(),
		AutoSwitch:    e.AutoSwitchEnabled(),
	}
	if root, ok := e.branches.RepositoryRoot(); ok {
		result.Repository = root
	}

	if branch, ok := e.branches.CurrentBranch(); ok {
		result.Branch = branch
		result.Saved = e.store.Has(ctx, branch)
	}

	branches, err := e.store.Branches(ctx)
	if err != nil {
		e.logger.Warn("failed to count configurations", "error", err)
	}
	result.ConfigCount = len(branches)

	result.Line = status.Render(status.Input{
		Branch:     result.Branch,
		Saved:      result.Saved,
		AutoSwitch: result.AutoSwitch,
		Show:       e.store.CurrentFeatureConfig().ShowStatusBar,
	})
	return result, nil
}
