// Package settings reads and writes workspace-scoped editor settings.
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/danieljhkim/snapbranch/internal/fsops"
)

// ErrUpdateFailed wraps every failure to write a setting.
var ErrUpdateFailed = errors.New("failed to update setting")

// Settings is the workspace settings surface of the host editor.
type Settings interface {
	// Get returns the workspace value of key. ok is false when unset.
	Get(ctx context.Context, key string) (value any, ok bool, err error)

	// Set writes key at workspace scope.
	Set(ctx context.Context, key string, value any) error
}

// WorkspaceFile implements Settings over a VS Code style settings.json.
// The file may contain comments and trailing commas. Writes rewrite it as
// plain JSON, so comments are not preserved.
type WorkspaceFile struct {
	fs   fsops.FS
	path string
	mu   sync.Mutex
}

// NewWorkspaceFile creates a WorkspaceFile for path.
func NewWorkspaceFile(fs fsops.FS, path string) *WorkspaceFile {
	return &WorkspaceFile{fs: fs, path: path}
}

// Path returns the settings file location.
func (w *WorkspaceFile) Path() string {
	return w.path
}

// Get returns the value of key.
func (w *WorkspaceFile) Get(ctx context.Context, key string) (any, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	values, err := w.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes key to the settings file.
func (w *WorkspaceFile) Set(ctx context.Context, key string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	values, err := w.load()
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrUpdateFailed, key, err)
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrUpdateFailed, key, err)
	}
	if err := w.fs.AtomicWrite(w.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("%w %s: %v", ErrUpdateFailed, key, err)
	}
	return nil
}

func (w *WorkspaceFile) load() (map[string]any, error) {
	data, err := w.fs.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	// An empty file or a bare null reads as no settings.
	plain := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(plain) == 0 {
		return make(map[string]any), nil
	}

	var values map[string]any
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", w.path, err)
	}
	if values == nil {
		values = make(map[string]any)
	}
	return values, nil
}

var _ Settings = (*WorkspaceFile)(nil)
