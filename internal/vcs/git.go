package vcs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitIntegration implements Integration with go-git and fsnotify.
type GitIntegration struct {
	logger *slog.Logger
}

// NewGitIntegration creates a GitIntegration.
func NewGitIntegration(logger *slog.Logger) *GitIntegration {
	return &GitIntegration{logger: logger}
}

// GitRepository is a repository opened by GitIntegration.
type GitRepository struct {
	repo *git.Repository
	root string
}

// Open binds the repository containing folder, searching parent directories.
func (g *GitIntegration) Open(folder string) (Repository, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w at %s", ErrNoRepository, abs)
		}
		return nil, fmt.Errorf("failed to open repository at %s: %w", abs, err)
	}

	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &GitRepository{repo: repo, root: root}, nil
}

// Root returns the working tree root.
func (r *GitRepository) Root() string {
	return r.root
}

// Branch reads HEAD without resolving it, so a branch with no commits yet
// still reports its name.
func (r *GitRepository) Branch() (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", nil
	}
	return head.Target().Short(), nil
}

// Watch watches the repository's git dir. HEAD, index and ref updates all
// land there.
func (g *GitIntegration) Watch(repo Repository, onChange func()) (Subscription, error) {
	gitDir, err := resolveGitDir(repo.Root())
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(gitDir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", gitDir, err)
	}

	gw := &gitWatch{
		watcher:  w,
		filter:   relevant,
		onChange: onChange,
		logger:   g.logger,
		stopCh:   make(chan struct{}),
	}
	go gw.eventLoop()

	g.logger.Debug("watching git dir", "root", repo.Root(), "gitdir", gitDir)
	return gw, nil
}

// WatchFolder calls onChange when a .git entry is created in or removed from
// folder, i.e. when a repository appears or goes away.
func (g *GitIntegration) WatchFolder(folder string, onChange func()) (Subscription, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(folder); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", folder, err)
	}

	gw := &gitWatch{
		watcher:  w,
		filter:   dotGitChanged,
		onChange: onChange,
		logger:   g.logger,
		stopCh:   make(chan struct{}),
	}
	go gw.eventLoop()

	g.logger.Debug("watching folder for repositories", "folder", folder)
	return gw, nil
}

type gitWatch struct {
	watcher  *fsnotify.Watcher
	filter   func(fsnotify.Event) bool
	onChange func()
	logger   *slog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

// Close stops the watcher. Safe to call multiple times.
func (gw *gitWatch) Close() error {
	var err error
	gw.stopOnce.Do(func() {
		close(gw.stopCh)
		err = gw.watcher.Close()
	})
	return err
}

func (gw *gitWatch) eventLoop() {
	for {
		select {
		case event, ok := <-gw.watcher.Events:
			if !ok {
				return
			}
			if !gw.filter(event) {
				continue
			}
			select {
			case <-gw.stopCh:
				return
			default:
			}
			gw.onChange()
		case err, ok := <-gw.watcher.Errors:
			if !ok {
				return
			}
			gw.logger.Warn("git watcher error", "error", err)
		case <-gw.stopCh:
			return
		}
	}
}

// relevant drops lock file churn and attribute-only events.
func relevant(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func dotGitChanged(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != ".git" {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// resolveGitDir returns the actual .git directory for a working tree.
// For regular clones, this is <path>/.git.
// For worktrees, .git is a file containing "gitdir: <path>".
func resolveGitDir(workspacePath string) (string, error) {
	dotGit := filepath.Join(workspacePath, ".git")

	info, err := os.Lstat(dotGit)
	if err != nil {
		return "", fmt.Errorf("no .git found: %w", err)
	}

	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("failed to read .git file: %w", err)
	}

	content := strings.TrimSpace(string(data))
	gitDir, ok := strings.CutPrefix(content, "gitdir: ")
	if !ok {
		return "", fmt.Errorf("unexpected .git file content: %s", content)
	}

	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(workspacePath, gitDir)
	}
	gitDir = filepath.Clean(gitDir)

	if _, err := os.Stat(gitDir); err != nil {
		return "", fmt.Errorf("resolved gitdir does not exist: %s: %w", gitDir, err)
	}

	return gitDir, nil
}

var (
	_ Integration = (*GitIntegration)(nil)
	_ Repository  = (*GitRepository)(nil)
)
