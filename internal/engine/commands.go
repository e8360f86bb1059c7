package engine

import (
	"context"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
)

// SaveCurrent captures the editor state and saves it for the current branch.
// A quiet save only logs.
func (e *Engine) SaveCurrent(ctx context.Context, quiet bool) (branchconfig.Result, error) {
	branch, err := e.currentBranch()
	if err != nil {
		return branchconfig.Result{Outcome: branchconfig.OutcomeFailed, Err: err}, err
	}

	snap := e.store.Capture(ctx)
	var res branchconfig.Result
	if quiet {
		res = e.store.SaveQuietly(ctx, branch, snap)
	} else {
		res = e.store.Save(ctx, branch, snap)
	}
	if res.OK() {
		e.recordWorkspace()
	}
	return res, nil
}

// RestoreCurrent restores the configuration of the current branch.
func (e *Engine) RestoreCurrent(ctx context.Context) (branchconfig.Result, error) {
	branch, err := e.currentBranch()
	if err != nil {
		return branchconfig.Result{Outcome: branchconfig.OutcomeFailed, Err: err}, err
	}
	return e.store.Restore(ctx, branch), nil
}

// RestoreBranch restores the configuration saved for branch, whichever
// branch is checked out.
func (e *Engine) RestoreBranch(ctx context.Context, branch string) branchconfig.Result {
	return e.store.Restore(ctx, branch)
}

// DeleteCurrent deletes the configuration of the current branch.
func (e *Engine) DeleteCurrent(ctx context.Context) (branchconfig.Result, error) {
	branch, err := e.currentBranch()
	if err != nil {
		return branchconfig.Result{Outcome: branchconfig.OutcomeFailed, Err: err}, err
	}
	return e.store.Delete(ctx, branch), nil
}

// DeleteBranch deletes the configuration saved for branch.
func (e *Engine) DeleteBranch(ctx context.Context, branch string) branchconfig.Result {
	return e.store.Delete(ctx, branch)
}

// CurrentBranch returns the checked-out branch without notifying.
func (e *Engine) CurrentBranch() (string, bool) {
	return e.branches.CurrentBranch()
}
