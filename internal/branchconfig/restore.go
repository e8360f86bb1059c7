package branchconfig

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/danieljhkim/snapbranch/internal/notify"
)

// Restore applies the configuration stored for branch.
//
// Settings are written first, one durable write per key. Then, if the
// configuration lists any files, every open editor is closed and the files are
// reopened in stored order. Finally the recorded active file is focused. A
// failing item is logged and skipped; the remaining items are still applied.
// Unsaved editor state is discarded by the close step.
func (s *Store) Restore(ctx context.Context, branch string) Result {
	if branch == "" {
		return Result{Outcome: OutcomeFailed, Err: ErrEmptyBranch}
	}

	cfg, found, err := s.Get(ctx, branch)
	if err != nil {
		s.logger.Error("error restoring configuration", "branch", branch, "error", err)
		s.notifier.Notify(notify.Error(fmt.Sprintf("Failed to restore configuration: %v", err)))
		return Result{Branch: branch, Outcome: OutcomeFailed, Err: err}
	}
	if !found {
		s.logger.Info("no configuration found for branch", "branch", branch)
		return Result{Branch: branch, Outcome: OutcomeNoOp}
	}

	failures := s.apply(ctx, cfg)

	outcome := OutcomeSuccess
	if len(failures) > 0 {
		outcome = OutcomePartial
	}
	s.logger.Info("restored configuration", "branch", branch, "failures", len(failures))
	s.notifier.Notify(notify.Info(fmt.Sprintf("Workspace configuration restored for branch: %s", branch)))

	return Result{Branch: branch, Outcome: outcome, Failures: failures}
}

func (s *Store) apply(ctx context.Context, cfg BranchConfiguration) []ItemFailure {
	features := s.CurrentFeatureConfig()
	var failures []ItemFailure

	fail := func(kind ItemKind, item string, err error) {
		s.logger.Warn("failed to apply item", "kind", string(kind), "item", item, "error", err)
		failures = append(failures, ItemFailure{Kind: kind, Item: item, Err: err})
	}

	if features.IncludeWorkspaceSettings {
		for _, key := range slices.Sorted(maps.Keys(cfg.WorkspaceSettings)) {
			if err := s.settings.Set(ctx, key, cfg.WorkspaceSettings[key]); err != nil {
				fail(ItemSetting, key, err)
			}
		}
	}

	if features.IncludeOpenFiles && len(cfg.OpenFiles) > 0 {
		if err := s.editor.CloseAll(ctx); err != nil {
			fail(ItemCloseAll, "", err)
		}
		for _, path := range cfg.OpenFiles {
			if err := s.editor.OpenFile(ctx, path); err != nil {
				fail(ItemFile, path, err)
			}
		}
	}

	if features.IncludeEditorLayout && cfg.EditorLayout != nil && cfg.EditorLayout.ActiveFile != "" {
		if err := s.editor.OpenFile(ctx, cfg.EditorLayout.ActiveFile); err != nil {
			fail(ItemActiveFile, cfg.EditorLayout.ActiveFile, err)
		}
	}

	return failures
}
