package settings

import (
	"context"
	"fmt"
	"sync"
)

// FakeSettings implements Settings in memory for tests.
type FakeSettings struct {
	mu      sync.Mutex
	values  map[string]any
	failing map[string]error
	writes  []string
}

// NewFakeSettings creates a FakeSettings seeded with values.
func NewFakeSettings(values map[string]any) *FakeSettings {
	v := make(map[string]any, len(values))
	for k, val := range values {
		v[k] = val
	}
	return &FakeSettings{values: v, failing: make(map[string]error)}
}

// FailSet makes Set fail for key with err.
func (f *FakeSettings) FailSet(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[key] = err
}

// Writes returns the keys written, in call order.
func (f *FakeSettings) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

// Get returns the value of key.
func (f *FakeSettings) Get(ctx context.Context, key string) (any, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

// Set writes key unless it was marked failing.
func (f *FakeSettings) Set(ctx context.Context, key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing[key]; err != nil {
		return fmt.Errorf("%w %s: %v", ErrUpdateFailed, key, err)
	}
	f.values[key] = value
	f.writes = append(f.writes, key)
	return nil
}

var _ Settings = (*FakeSettings)(nil)
