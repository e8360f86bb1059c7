package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("returns paths based on home directory", func(t *testing.T) {
		t.Setenv("SNAPBRANCH_ROOT", "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root == "" {
			t.Error("Root should not be empty")
		}
		if paths.Workspaces != filepath.Join(paths.Root, "workspaces") {
			t.Errorf("Workspaces path incorrect: got %s", paths.Workspaces)
		}
		if paths.Config != filepath.Join(paths.Root, "config.yaml") {
			t.Errorf("Config path incorrect: got %s", paths.Config)
		}
		if filepath.Base(paths.Root) != ".snapbranch" {
			t.Errorf("Root should end with .snapbranch, got: %s", paths.Root)
		}
	})

	t.Run("respects SNAPBRANCH_ROOT environment variable", func(t *testing.T) {
		customRoot := "/custom/snapbranch/path"
		t.Setenv("SNAPBRANCH_ROOT", customRoot)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root != customRoot {
			t.Errorf("Expected root %s, got %s", customRoot, paths.Root)
		}
		if paths.Global != filepath.Join(customRoot, "global.json") {
			t.Errorf("Global should be under custom root, got: %s", paths.Global)
		}
		if got, want := paths.WorkspaceState("abc"), filepath.Join(customRoot, "workspaces", "abc.json"); got != want {
			t.Errorf("WorkspaceState() = %s, want %s", got, want)
		}
	})
}

func TestPaths_EnsureDirectories(t *testing.T) {
	paths := PathsAt(filepath.Join(t.TempDir(), "root"))

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{paths.Root, paths.Workspaces, paths.Logs} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}

	// Idempotent
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("second EnsureDirectories failed: %v", err)
	}
}
