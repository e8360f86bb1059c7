package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
	"github.com/danieljhkim/snapbranch/internal/clock"
	"github.com/danieljhkim/snapbranch/internal/config"
	"github.com/danieljhkim/snapbranch/internal/editor"
	"github.com/danieljhkim/snapbranch/internal/engine"
	"github.com/danieljhkim/snapbranch/internal/fsops"
	"github.com/danieljhkim/snapbranch/internal/logging"
	"github.com/danieljhkim/snapbranch/internal/notify"
	"github.com/danieljhkim/snapbranch/internal/reactor"
	"github.com/danieljhkim/snapbranch/internal/settings"
	"github.com/danieljhkim/snapbranch/internal/state"
	"github.com/danieljhkim/snapbranch/internal/vcs"
)

// Workspace-relative locations of the editor files snapbranch reads and writes.
const (
	sessionFile  = ".snapbranch/session.json"
	settingsFile = ".vscode/settings.json"
)

// session holds an engine and the resources that must be released after use.
type session struct {
	eng      *engine.Engine
	reactor  *reactor.Reactor
	git      *vcs.GitIntegration
	paths    *config.Paths
	cfg      *config.File
	root     string
	logger   *slog.Logger
	logClose io.Closer
}

// Close shuts the reactor down and flushes the log.
func (s *session) Close() {
	s.reactor.Shutdown()
	_ = s.logClose.Close()
}

// newSession creates an engine with real implementations of all dependencies,
// scoped to the workspace containing the current directory.
func newSession() (*session, error) {
	// Get default paths
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	// Ensure directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cfg, err := config.LoadFile(paths.Config)
	if err != nil {
		return nil, err
	}

	logger, logClose, err := logging.New(logging.Options{Path: paths.LogFile(), Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		_ = logClose.Close()
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	root, err := vcs.WorkspaceRoot(cwd)
	if err != nil {
		_ = logClose.Close()
		return nil, err
	}

	// Create real implementations
	fs := fsops.NewRealFS()
	clk := &clock.RealClock{}
	features := config.NewFileFeatureSource(paths.Config, logger)
	workspaceState := state.NewFileStore(fs, paths.WorkspaceState(state.ComputeWorkspaceID(root)))
	globalState := state.NewFileStore(fs, paths.Global)

	var launcher editor.Launcher
	if code, ok := editor.ResolveCodeCommand(); ok {
		launcher = editor.NewCodeLauncher(code)
	}
	ed := editor.NewSessionFile(fs, filepath.Join(root, sessionFile), launcher)
	set := settings.NewWorkspaceFile(fs, filepath.Join(root, settingsFile))

	notifier := newNotifier(logger)

	git := vcs.NewGitIntegration(logger)
	r := reactor.New(git, []string{root}, reactor.Options{
		Clock:       clk,
		Logger:      logger,
		RebindDelay: cfg.Daemon.RebindDelay,
	})

	store := branchconfig.New(workspaceState, ed, set, features, notifier, clk, logger)

	// Create engine
	eng := engine.New(engine.Deps{
		Store:         store,
		Branches:      r,
		Workspace:     workspaceState,
		Global:        globalState,
		FS:            fs,
		Notifier:      notifier,
		Clock:         clk,
		Logger:        logger,
		Paths:         *paths,
		WorkspaceRoot: root,
	})

	if _, err := eng.Welcome(); err != nil {
		logger.Warn("failed to show welcome message", "error", err)
	}

	return &session{
		eng:      eng,
		reactor:  r,
		git:      git,
		paths:    paths,
		cfg:      cfg,
		root:     root,
		logger:   logger,
		logClose: logClose,
	}, nil
}

// newNotifier prints notifications unless JSON output is requested, and
// always logs them.
func newNotifier(logger *slog.Logger) notify.Notifier {
	if jsonOutput {
		return notify.NewLog(logger)
	}
	return notify.Multi{notify.NewConsole(os.Stdout, os.Stderr), notify.NewLog(logger)}
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resultError turns a failed store result into a command error.
func resultError(res branchconfig.Result) error {
	if res.OK() {
		return nil
	}
	return res.Err
}
