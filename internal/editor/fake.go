package editor

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// FakeEditor implements Editor in memory for tests.
type FakeEditor struct {
	mu sync.Mutex

	docs    []Document
	active  string
	visible []string

	// failing maps paths that OpenFile must reject.
	failing map[string]bool
	err     error

	opened        []string
	closeAllCalls int
}

// NewFakeEditor creates a FakeEditor with the given open documents.
func NewFakeEditor(docs ...Document) *FakeEditor {
	return &FakeEditor{
		docs:    docs,
		failing: make(map[string]bool),
	}
}

// SetActive sets the focused document.
func (f *FakeEditor) SetActive(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = path
}

// SetVisible sets the visible documents.
func (f *FakeEditor) SetVisible(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = paths
}

// FailOpen makes OpenFile fail for path, as if it were deleted.
func (f *FakeEditor) FailOpen(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[path] = true
}

// SetError sets an error to be returned by every read.
func (f *FakeEditor) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Opened returns every path OpenFile accepted, in call order.
func (f *FakeEditor) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

// CloseAllCalls returns how many times CloseAll ran.
func (f *FakeEditor) CloseAllCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeAllCalls
}

// Documents lists the open documents.
func (f *FakeEditor) Documents(ctx context.Context) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]Document(nil), f.docs...), nil
}

// ActiveFile returns the focused document.
func (f *FakeEditor) ActiveFile(ctx context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	return f.active, f.active != "", nil
}

// VisibleFiles lists the visible documents.
func (f *FakeEditor) VisibleFiles(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.visible...), nil
}

// CloseAll closes every document.
func (f *FakeEditor) CloseAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeAllCalls++
	f.docs = nil
	f.active = ""
	f.visible = nil
	return nil
}

// OpenFile opens path unless it was marked failing.
func (f *FakeEditor) OpenFile(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[path] {
		return fmt.Errorf("%w %s: %v", ErrOpenFailed, path, os.ErrNotExist)
	}
	f.opened = append(f.opened, path)
	f.docs = append(f.docs, Document{Path: path, Scheme: SchemeFile})
	f.active = path
	f.visible = []string{path}
	return nil
}

var _ Editor = (*FakeEditor)(nil)
