package vcs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover finds the repository root by walking up from cwd looking for .git.
func Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			// .git can be a directory or a file (for worktrees/submodules)
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotInRepo
		}
		current = parent
	}
}

// WorkspaceRoot returns the repository root containing cwd, or cwd itself
// when it is not inside a repository.
func WorkspaceRoot(cwd string) (string, error) {
	root, err := Discover(cwd)
	if err == nil {
		return root, nil
	}
	abs, absErr := filepath.Abs(cwd)
	if absErr != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", absErr)
	}
	return abs, nil
}
