package vcs

import (
	"fmt"
	"path/filepath"
	"sync"
)

// FakeIntegration implements Integration in memory for tests.
type FakeIntegration struct {
	mu      sync.Mutex
	repos   map[string]*FakeRepository
	openErr error
}

// NewFakeIntegration creates an empty FakeIntegration.
func NewFakeIntegration() *FakeIntegration {
	return &FakeIntegration{repos: make(map[string]*FakeRepository)}
}

// AddRepository registers a repository rooted at folder with branch checked out.
func (f *FakeIntegration) AddRepository(folder, branch string) *FakeRepository {
	f.mu.Lock()
	defer f.mu.Unlock()
	repo := &FakeRepository{
		root:     filepath.Clean(folder),
		branch:   branch,
		watchers: make(map[int]func()),
	}
	f.repos[repo.root] = repo
	return repo
}

// RemoveRepository forgets the repository at folder.
func (f *FakeIntegration) RemoveRepository(folder string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.repos, filepath.Clean(folder))
}

// SetOpenError makes every Open fail with err.
func (f *FakeIntegration) SetOpenError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErr = err
}

// Open returns the repository registered at folder.
func (f *FakeIntegration) Open(folder string) (Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	repo, ok := f.repos[filepath.Clean(folder)]
	if !ok {
		return nil, fmt.Errorf("%w at %s", ErrNoRepository, folder)
	}
	return repo, nil
}

// Watch registers onChange with the repository.
func (f *FakeIntegration) Watch(repo Repository, onChange func()) (Subscription, error) {
	fr, ok := repo.(*FakeRepository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type %T", repo)
	}
	fr.mu.Lock()
	defer fr.mu.Unlock()
	id := fr.nextID
	fr.nextID++
	fr.watchers[id] = onChange
	return &fakeSubscription{repo: fr, id: id}, nil
}

// FakeRepository is a repository whose branch tests set directly.
type FakeRepository struct {
	mu       sync.Mutex
	root     string
	branch   string
	err      error
	watchers map[int]func()
	nextID   int
}

// Root returns the repository root.
func (r *FakeRepository) Root() string {
	return r.root
}

// Branch returns the checked-out branch.
func (r *FakeRepository) Branch() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	return r.branch, nil
}

// SetBranch changes the branch without notifying watchers.
func (r *FakeRepository) SetBranch(branch string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.branch = branch
}

// SetError makes Branch fail with err.
func (r *FakeRepository) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Notify sends one coarse state-changed notification to every watcher.
func (r *FakeRepository) Notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.watchers))
	for id := 0; id < r.nextID; id++ {
		if fn, ok := r.watchers[id]; ok {
			fns = append(fns, fn)
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Checkout sets the branch and notifies watchers.
func (r *FakeRepository) Checkout(branch string) {
	r.SetBranch(branch)
	r.Notify()
}

// Watchers returns how many subscriptions are open.
func (r *FakeRepository) Watchers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watchers)
}

type fakeSubscription struct {
	repo *FakeRepository
	id   int
}

func (s *fakeSubscription) Close() error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	delete(s.repo.watchers, s.id)
	return nil
}

var (
	_ Integration = (*FakeIntegration)(nil)
	_ Repository  = (*FakeRepository)(nil)
)
