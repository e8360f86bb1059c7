// Package engine wires branch changes to the branch configuration store and
// implements the user-facing commands.
//
// The engine is the orchestration layer between the CLI and the core:
//   - Branch changes: autosave the branch being left, restore the one entered
//   - Commands: save, restore, list, delete, toggle, status
//   - Global flags: auto-switch pause state and the first-run welcome
//   - Daemon: the periodic quiet save used by `snapbranch watch`
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
	"github.com/danieljhkim/snapbranch/internal/clock"
	"github.com/danieljhkim/snapbranch/internal/config"
	"github.com/danieljhkim/snapbranch/internal/fsops"
	"github.com/danieljhkim/snapbranch/internal/notify"
	"github.com/danieljhkim/snapbranch/internal/reactor"
	"github.com/danieljhkim/snapbranch/internal/state"
)

// Keys in the global state store.
const (
	AutoSwitchKey      = "snapbranch.autoSwitch"
	FirstActivationKey = "snapbranch.firstActivation"
)

// WorkspaceKey holds the WorkspaceRecord in each workspace state store.
const WorkspaceKey = "snapbranch.workspace"

// BranchSource reports the current branch and branch changes.
type BranchSource interface {
	CurrentBranch() (string, bool)
	IsAvailable() bool
	RepositoryRoot() (string, bool)
	Subscribe(fn func(reactor.Event)) reactor.Subscription
}

// Deps are the collaborators of an Engine.
type Deps struct {
	Store     *branchconfig.Store
	Branches  BranchSource
	Workspace state.Store
	Global    state.Store
	FS        fsops.FS
	Notifier  notify.Notifier
	Clock     clock.Clock
	Logger    *slog.Logger
	Paths     config.Paths

	// WorkspaceRoot is the folder the workspace state belongs to.
	WorkspaceRoot string
}

// Engine orchestrates all snapbranch operations.
// It is the main API surface called by the CLI.
type Engine struct {
	store         *branchconfig.Store
	branches      BranchSource
	workspace     state.Store
	global        state.Store
	fs            fsops.FS
	notifier      notify.Notifier
	clock         clock.Clock
	logger        *slog.Logger
	configPaths   config.Paths
	workspaceRoot string

	mu      sync.Mutex
	ctx     context.Context
	sub     reactor.Subscription
	started bool
}

// New creates a new Engine with the given dependencies.
func New(d Deps) *Engine {
	return &Engine{
		store:         d.Store,
		branches:      d.Branches,
		workspace:     d.Workspace,
		global:        d.Global,
		fs:            d.FS,
		notifier:      d.Notifier,
		clock:         d.Clock,
		logger:        d.Logger,
		configPaths:   d.Paths,
		workspaceRoot: d.WorkspaceRoot,
	}
}

// Start subscribes to branch changes. ctx is used for the work each change
// triggers. Calling Start again is a no-op until Stop.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return
	}
	e.ctx = ctx
	e.sub = e.branches.Subscribe(func(ev reactor.Event) {
		e.mu.Lock()
		c := e.ctx
		e.mu.Unlock()
		e.HandleBranchChange(c, ev)
	})
	e.started = true
	e.recordWorkspace()
}

// Stop unsubscribes from branch changes. Safe to call multiple times.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	e.sub.Unsubscribe()
	e.started = false
}

// HandleBranchChange reacts to one branch transition.
//
// With auto-switch on, the editor state is first saved quietly under the
// branch being left (autoSave) and then the new branch's configuration is
// restored (autoRestore). The switch is reported either way.
func (e *Engine) HandleBranchChange(ctx context.Context, ev reactor.Event) SwitchResult {
	features := e.store.CurrentFeatureConfig()
	result := SwitchResult{Event: ev, AutoSwitch: e.AutoSwitchEnabled()}

	if result.AutoSwitch && features.AutoSave && ev.Previous != "" {
		saved := e.store.SaveQuietly(ctx, ev.Previous, e.store.Capture(ctx))
		result.Saved = &saved
	}

	if result.AutoSwitch && features.AutoRestore {
		restored := e.store.Restore(ctx, ev.Branch)
		result.Restored = &restored
	}

	e.logger.Info("handled branch change", "from", ev.Previous, "to", ev.Branch, "autoSwitch", result.AutoSwitch)
	e.notifier.Notify(notify.Info("Switched to branch: " + ev.Branch))
	return result
}

// currentBranch returns the current branch or warns the user there is none.
func (e *Engine) currentBranch() (string, error) {
	branch, ok := e.branches.CurrentBranch()
	if !ok {
		e.notifier.Notify(notify.Warning("No Git branch detected"))
		return "", ErrNoBranch
	}
	return branch, nil
}
