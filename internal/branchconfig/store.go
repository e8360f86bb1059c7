// Package branchconfig stores one workspace snapshot per branch and reapplies
// it to the editor.
//
// Saves overwrite, restores are best-effort per item, and no public operation
// returns an error for a failed save, restore or delete: failures are logged,
// reported through the notifier and described in the returned Result.
//
// Save and Restore are not serialized against each other. If both run for the
// same branch at once, the last state store write wins. Across processes the
// race is wider: the state file is rewritten whole, so a concurrent save from
// another process can drop a configuration stored for a different branch.
package branchconfig

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/danieljhkim/snapbranch/internal/clock"
	"github.com/danieljhkim/snapbranch/internal/config"
	"github.com/danieljhkim/snapbranch/internal/editor"
	"github.com/danieljhkim/snapbranch/internal/notify"
	"github.com/danieljhkim/snapbranch/internal/settings"
	"github.com/danieljhkim/snapbranch/internal/state"
)

// ShowConfigsAction is offered after a loud save.
var ShowConfigsAction = notify.Action{Label: "Show Configs", Command: "snapbranch list"}

// Store is the branch configuration store for one workspace.
type Store struct {
	state    state.Store
	editor   editor.Editor
	settings settings.Settings
	features config.FeatureSource
	notifier notify.Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a Store with the given dependencies.
func New(
	st state.Store,
	ed editor.Editor,
	set settings.Settings,
	features config.FeatureSource,
	notifier notify.Notifier,
	clk clock.Clock,
	logger *slog.Logger,
) *Store {
	return &Store{
		state:    st,
		editor:   ed,
		settings: set,
		features: features,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// CurrentFeatureConfig re-reads the feature toggles.
func (s *Store) CurrentFeatureConfig() config.Features {
	return s.features.Features()
}

// Save stores snap for branch and reports success to the user.
func (s *Store) Save(ctx context.Context, branch string, snap Snapshot) Result {
	return s.save(ctx, branch, snap, false)
}

// SaveQuietly stores snap for branch. Only the log records it.
func (s *Store) SaveQuietly(ctx context.Context, branch string, snap Snapshot) Result {
	return s.save(ctx, branch, snap, true)
}

func (s *Store) save(ctx context.Context, branch string, snap Snapshot, quiet bool) Result {
	if branch == "" {
		s.logger.Warn("refusing to save configuration without a branch")
		return Result{Outcome: OutcomeFailed, Err: ErrEmptyBranch}
	}

	cfg := BranchConfiguration{
		BranchName: branch,
		Timestamp:  s.clock.Now().UnixMilli(),
	}
	s.fill(&cfg, snap, s.CurrentFeatureConfig())

	if err := s.state.Set(Key(branch), cfg); err != nil {
		err = fmt.Errorf("failed to store configuration for %s: %w", branch, err)
		if quiet {
			s.logger.Error("error auto-saving configuration", "branch", branch, "error", err)
		} else {
			s.logger.Error("error saving configuration", "branch", branch, "error", err)
			s.notifier.Notify(notify.Error(fmt.Sprintf("Failed to save configuration: %v", err)))
		}
		return Result{Branch: branch, Outcome: OutcomeFailed, Err: err}
	}

	if quiet {
		s.logger.Info("auto-saved configuration", "branch", branch, "files", len(cfg.OpenFiles))
	} else {
		s.logger.Info("saved configuration", "branch", branch, "files", len(cfg.OpenFiles))
		s.notifier.Notify(notify.Info(
			fmt.Sprintf("Workspace configuration saved for branch: %s", branch),
			ShowConfigsAction,
		))
	}
	return Result{Branch: branch, Outcome: OutcomeSuccess}
}

// fill copies the toggled-on parts of snap into cfg. Settings outside the
// allow-list are dropped.
func (s *Store) fill(cfg *BranchConfiguration, snap Snapshot, features config.Features) {
	cfg.OpenFiles = []string{}
	if features.IncludeOpenFiles && len(snap.OpenFiles) > 0 {
		cfg.OpenFiles = slices.Clone(snap.OpenFiles)
	}

	if features.IncludeEditorLayout {
		cfg.EditorLayout = snap.EditorLayout.clone()
	}

	cfg.WorkspaceSettings = make(map[string]any)
	if features.IncludeWorkspaceSettings {
		for _, key := range WorkspaceSettingKeys {
			if v, ok := snap.WorkspaceSettings[key]; ok && v != nil {
				cfg.WorkspaceSettings[key] = v
			}
		}
	}
}

// Get returns the configuration stored for branch.
func (s *Store) Get(ctx context.Context, branch string) (BranchConfiguration, bool, error) {
	if branch == "" {
		return BranchConfiguration{}, false, ErrEmptyBranch
	}

	var cfg BranchConfiguration
	found, err := s.state.Get(Key(branch), &cfg)
	if err != nil {
		return BranchConfiguration{}, false, fmt.Errorf("failed to read configuration for %s: %w", branch, err)
	}
	return cfg, found, nil
}

// Has reports whether a configuration is stored for branch.
// Read errors count as absent.
func (s *Store) Has(ctx context.Context, branch string) bool {
	_, found, err := s.Get(ctx, branch)
	if err != nil {
		s.logger.Warn("failed to check configuration", "branch", branch, "error", err)
		return false
	}
	return found
}

// List returns every stored configuration keyed by branch name.
// Entries that cannot be decoded are logged and skipped.
func (s *Store) List(ctx context.Context) (map[string]BranchConfiguration, error) {
	keys, err := s.state.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}

	configs := make(map[string]BranchConfiguration)
	for _, key := range keys {
		branch, ok := BranchFromKey(key)
		if !ok {
			continue
		}

		var cfg BranchConfiguration
		found, err := s.state.Get(key, &cfg)
		if err != nil {
			s.logger.Warn("skipping unreadable configuration", "branch", branch, "error", err)
			continue
		}
		if found {
			configs[branch] = cfg
		}
	}
	return configs, nil
}

// Branches returns the names of every branch with a stored configuration, sorted.
func (s *Store) Branches(ctx context.Context) ([]string, error) {
	configs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(configs)), nil
}

// Delete removes the configuration for branch. Deleting a branch that has no
// configuration succeeds as a no-op.
func (s *Store) Delete(ctx context.Context, branch string) Result {
	if branch == "" {
		return Result{Outcome: OutcomeFailed, Err: ErrEmptyBranch}
	}

	existed := s.Has(ctx, branch)
	if err := s.state.Delete(Key(branch)); err != nil {
		err = fmt.Errorf("failed to delete configuration for %s: %w", branch, err)
		s.logger.Error("error deleting configuration", "branch", branch, "error", err)
		s.notifier.Notify(notify.Error(fmt.Sprintf("Failed to delete configuration: %v", err)))
		return Result{Branch: branch, Outcome: OutcomeFailed, Err: err}
	}

	s.logger.Info("deleted configuration", "branch", branch, "existed", existed)
	s.notifier.Notify(notify.Info(fmt.Sprintf("Configuration deleted for branch: %s", branch)))

	if !existed {
		return Result{Branch: branch, Outcome: OutcomeNoOp}
	}
	return Result{Branch: branch, Outcome: OutcomeSuccess}
}
