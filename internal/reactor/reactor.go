// Package reactor turns coarse repository state notifications into a stream
// of branch changes.
//
// A Reactor binds to the repository of the first workspace folder that has
// one. On every state notification it re-reads the branch and emits an Event
// only when the name is non-empty and differs from the last one it saw, so
// unrelated churn such as staging a file never reaches subscribers. Without a
// repository the reactor reports no branch and emits nothing.
package reactor

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danieljhkim/snapbranch/internal/clock"
	"github.com/danieljhkim/snapbranch/internal/config"
	"github.com/danieljhkim/snapbranch/internal/vcs"
)

// Event reports a branch transition.
type Event struct {
	// Branch is the newly checked-out branch.
	Branch string

	// Previous is the last branch seen before the change; empty if none was known.
	Previous string
}

// Options configures a Reactor.
type Options struct {
	Clock  clock.Clock
	Logger *slog.Logger

	// RebindDelay is how long UpdateFolders waits before rebinding.
	// Zero means config.DefaultRebindDelay.
	RebindDelay time.Duration
}

// Reactor watches the active repository for branch changes.
type Reactor struct {
	integration vcs.Integration
	clock       clock.Clock
	logger      *slog.Logger
	rebindDelay time.Duration

	mu          sync.Mutex
	folders     []string
	repo        vcs.Repository
	watch       vcs.Subscription
	last        string
	subscribers map[string]func(Event)
	order       []string
	rebindTimer clock.Timer
	closed      bool

	// dispatchMu keeps compare-and-emit atomic so events leave in the order
	// notifications arrive.
	dispatchMu sync.Mutex

	shutdownOnce sync.Once
}

// New creates a Reactor and binds it to folders. A nil integration, or one that
// finds no repository, leaves the reactor unbound.
func New(integration vcs.Integration, folders []string, opts Options) *Reactor {
	if opts.Clock == nil {
		opts.Clock = &clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RebindDelay <= 0 {
		opts.RebindDelay = config.DefaultRebindDelay
	}

	r := &Reactor{
		integration: integration,
		clock:       opts.Clock,
		logger:      opts.Logger,
		rebindDelay: opts.RebindDelay,
		folders:     slices.Clone(folders),
		subscribers: make(map[string]func(Event)),
	}

	if integration == nil {
		r.logger.Warn("git integration unavailable, branch monitoring disabled")
		return r
	}

	r.mu.Lock()
	r.bindLocked()
	r.mu.Unlock()
	return r
}

// CurrentBranch reads the bound repository's branch. It returns false when no
// repository is bound, HEAD is detached, or HEAD cannot be read.
func (r *Reactor) CurrentBranch() (string, bool) {
	r.mu.Lock()
	repo := r.repo
	r.mu.Unlock()

	if repo == nil {
		return "", false
	}
	branch, err := repo.Branch()
	if err != nil {
		r.logger.Warn("failed to read current branch", "root", repo.Root(), "error", err)
		return "", false
	}
	return branch, branch != ""
}

// IsAvailable reports whether a repository is bound.
func (r *Reactor) IsAvailable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.repo != nil
}

// RepositoryRoot returns the bound repository's root.
func (r *Reactor) RepositoryRoot() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repo == nil {
		return "", false
	}
	return r.repo.Root(), true
}

// Subscription is returned by Subscribe.
type Subscription struct {
	r  *Reactor
	id string
}

// Unsubscribe stops delivery. Safe to call multiple times.
func (s Subscription) Unsubscribe() {
	if s.r == nil {
		return
	}
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if _, ok := s.r.subscribers[s.id]; !ok {
		return
	}
	delete(s.r.subscribers, s.id)
	s.r.order = slices.DeleteFunc(s.r.order, func(id string) bool { return id == s.id })
}

// Subscribe registers fn for branch change events. Subscribers are called
// synchronously, in registration order, on the goroutine that delivered the
// repository notification.
func (r *Reactor) Subscribe(fn func(Event)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.subscribers[id] = fn
	r.order = append(r.order, id)
	return Subscription{r: r, id: id}
}

// UpdateFolders replaces the workspace folders and rebinds after the rebind
// delay. Calls within the delay collapse into one rebind.
func (r *Reactor) UpdateFolders(folders []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.integration == nil {
		return
	}
	r.folders = slices.Clone(folders)
	if r.rebindTimer != nil {
		r.rebindTimer.Stop()
	}
	r.rebindTimer = r.clock.AfterFunc(r.rebindDelay, r.rebind)
}

func (r *Reactor) rebind() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.rebindTimer = nil
	r.bindLocked()
}

// bindLocked binds the first folder that has a repository. Binding never emits.
// If no branch is known yet the bound branch becomes the last-known one.
// Must be called with r.mu held.
func (r *Reactor) bindLocked() {
	if r.watch != nil {
		if err := r.watch.Close(); err != nil {
			r.logger.Warn("failed to close repository watch", "error", err)
		}
		r.watch = nil
	}
	r.repo = nil

	for _, folder := range r.folders {
		repo, err := r.integration.Open(folder)
		if err != nil {
			r.logger.Debug("no repository for folder", "folder", folder, "error", err)
			continue
		}

		watch, err := r.integration.Watch(repo, r.handleStateChange)
		if err != nil {
			r.logger.Warn("failed to watch repository", "root", repo.Root(), "error", err)
		}
		r.repo = repo
		r.watch = watch

		if r.last == "" {
			if branch, err := repo.Branch(); err == nil {
				r.last = branch
			}
		}
		r.logger.Info("bound repository", "root", repo.Root(), "branch", r.last)
		return
	}

	r.logger.Info("no repository bound", "folders", r.folders)
}

// handleStateChange re-derives the branch after a coarse notification.
func (r *Reactor) handleStateChange() {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	branch, ok := r.CurrentBranch()

	r.mu.Lock()
	if r.closed || !ok || branch == r.last {
		r.mu.Unlock()
		return
	}
	previous := r.last
	r.last = branch
	fns := make([]func(Event), 0, len(r.order))
	for _, id := range r.order {
		fns = append(fns, r.subscribers[id])
	}
	r.mu.Unlock()

	r.logger.Info("branch changed", "from", previous, "to", branch)
	ev := Event{Branch: branch, Previous: previous}
	for _, fn := range fns {
		fn(ev)
	}
}

// Shutdown stops watching and drops every subscriber. Safe to call multiple times.
func (r *Reactor) Shutdown() {
	r.shutdownOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.closed = true
		if r.rebindTimer != nil {
			r.rebindTimer.Stop()
			r.rebindTimer = nil
		}
		if r.watch != nil {
			if err := r.watch.Close(); err != nil {
				r.logger.Warn("failed to close repository watch", "error", err)
			}
			r.watch = nil
		}
		r.subscribers = make(map[string]func(Event))
		r.order = nil
	})
}
