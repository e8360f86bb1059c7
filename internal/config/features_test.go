package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultFeatures(t *testing.T) {
	f := DefaultFeatures()

	if !f.AutoSave || !f.AutoRestore || !f.IncludeOpenFiles || !f.IncludeEditorLayout || !f.ShowStatusBar {
		t.Errorf("expected all toggles except settings capture to default to true, got %+v", f)
	}
	if f.IncludeWorkspaceSettings {
		t.Error("expected IncludeWorkspaceSettings to default to false")
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Features
		wantErr bool
	}{
		{
			name:    "partial file keeps defaults",
			content: "features:\n  includeWorkspaceSettings: true\n",
			want: func() Features {
				f := DefaultFeatures()
				f.IncludeWorkspaceSettings = true
				return f
			}(),
		},
		{
			name:    "disables toggles",
			content: "features:\n  autoRestore: false\n  showStatusBar: false\n",
			want: func() Features {
				f := DefaultFeatures()
				f.AutoRestore = false
				f.ShowStatusBar = false
				return f
			}(),
		},
		{
			name:    "invalid yaml",
			content: "features: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			got, err := LoadFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile() error: %v", err)
			}
			if got.Features != tt.want {
				t.Errorf("Features = %+v, want %+v", got.Features, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	got, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if got.Features != DefaultFeatures() {
		t.Errorf("expected defaults, got %+v", got.Features)
	}
	if got.Daemon.RebindDelay != DefaultRebindDelay {
		t.Errorf("RebindDelay = %v, want %v", got.Daemon.RebindDelay, DefaultRebindDelay)
	}
	if got.Daemon.AutoSaveInterval != 0 {
		t.Errorf("AutoSaveInterval = %v, want 0", got.Daemon.AutoSaveInterval)
	}
}

func TestLoadFile_DaemonDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "daemon:\n  autoSaveInterval: 5m\n  rebindDelay: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if got.Daemon.AutoSaveInterval != 5*time.Minute {
		t.Errorf("AutoSaveInterval = %v, want 5m", got.Daemon.AutoSaveInterval)
	}
	if got.Daemon.RebindDelay != 2*time.Second {
		t.Errorf("RebindDelay = %v, want 2s", got.Daemon.RebindDelay)
	}
}

// Toggle edits must be visible on the very next read.
func TestFileFeatureSource_ReadsThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := NewFileFeatureSource(path, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if got := src.Features(); got != DefaultFeatures() {
		t.Fatalf("expected defaults without a file, got %+v", got)
	}

	if err := os.WriteFile(path, []byte("features:\n  autoRestore: false\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if src.Features().AutoRestore {
		t.Fatal("expected autoRestore=false after edit")
	}

	if err := os.WriteFile(path, []byte("features:\n  autoRestore: true\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if !src.Features().AutoRestore {
		t.Fatal("expected autoRestore=true after second edit")
	}
}

func TestFileFeatureSource_BrokenFileKeepsLastGood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	var logs bytes.Buffer
	src := NewFileFeatureSource(path, slog.New(slog.NewTextHandler(&logs, nil)))

	if err := os.WriteFile(path, []byte("features:\n  includeWorkspaceSettings: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if !src.Features().IncludeWorkspaceSettings {
		t.Fatal("expected includeWorkspaceSettings=true")
	}

	if err := os.WriteFile(path, []byte("features: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if !src.Features().IncludeWorkspaceSettings {
		t.Error("broken file reverted the toggles")
	}
	if !bytes.Contains(logs.Bytes(), []byte("failed to read feature toggles")) {
		t.Errorf("expected a warning in the log, got %q", logs.String())
	}
}

func TestFileFeatureSource_BrokenFileWithoutHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("features: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	src := NewFileFeatureSource(path, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if got := src.Features(); got != DefaultFeatures() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	created, err := WriteDefault(path)
	if err != nil || !created {
		t.Fatalf("WriteDefault() = %v, %v; want true, nil", created, err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if got.Features != DefaultFeatures() {
		t.Errorf("round-tripped features = %+v", got.Features)
	}

	created, err = WriteDefault(path)
	if err != nil || created {
		t.Fatalf("second WriteDefault() = %v, %v; want false, nil", created, err)
	}
}
