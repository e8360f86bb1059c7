// Package config manages snapbranch configuration and filesystem paths.
//
// Configuration includes the locations of snapbranch data directories, which can
// be customized via environment variables, and the feature toggles read from
// config.yaml. The default root is ~/.snapbranch/ containing workspaces/,
// logs/, global.json and config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by snapbranch.
type Paths struct {
	// Root is the base directory for all snapbranch data (default: ~/.snapbranch)
	Root string

	// Workspaces is the directory containing per-workspace state files
	Workspaces string

	// Logs is the directory containing the log file
	Logs string

	// Global is the path to the state file shared by all workspaces
	Global string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths for snapbranch.
// Paths can be overridden with environment variables:
// - SNAPBRANCH_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("SNAPBRANCH_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".snapbranch")
	}

	return PathsAt(root), nil
}

// PathsAt returns the path layout rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:       root,
		Workspaces: filepath.Join(root, "workspaces"),
		Logs:       filepath.Join(root, "logs"),
		Global:     filepath.Join(root, "global.json"),
		Config:     filepath.Join(root, "config.yaml"),
	}
}

// WorkspaceState returns the state file for the workspace with the given ID.
func (p *Paths) WorkspaceState(workspaceID string) string {
	return filepath.Join(p.Workspaces, workspaceID+".json")
}

// LogFile returns the path of the log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.Logs, "snapbranch.log")
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Workspaces,
		p.Logs,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
