package engine

import (
	"context"
	"time"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
)

// Run handles branch changes until ctx is done. A positive autoSaveInterval
// also saves the current branch quietly on that period.
func (e *Engine) Run(ctx context.Context, autoSaveInterval time.Duration) error {
	e.Start(ctx)
	defer e.Stop()

	if autoSaveInterval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := e.clock.NewTicker(autoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			e.AutoSave(ctx)
		}
	}
}

// AutoSave quietly saves the current branch when autoSave and auto-switch are
// both on. It reports whether a save was attempted.
func (e *Engine) AutoSave(ctx context.Context) (branchconfig.Result, bool) {
	if !e.store.CurrentFeatureConfig().AutoSave || !e.AutoSwitchEnabled() {
		return branchconfig.Result{}, false
	}
	branch, ok := e.branches.CurrentBranch()
	if !ok {
		return branchconfig.Result{}, false
	}
	return e.store.SaveQuietly(ctx, branch, e.store.Capture(ctx)), true
}
