// Package vcs exposes the version-control facts snapbranch needs: which
// branch a folder's repository has checked out, and when its state changes.
package vcs

import "errors"

var (
	// ErrNoRepository indicates a folder is not inside a repository.
	ErrNoRepository = errors.New("no repository found")

	// ErrNotInRepo indicates the current directory is not in a git repository.
	ErrNotInRepo = errors.New("not in a git repository")
)

// Repository is a bound repository.
type Repository interface {
	// Root returns the working tree root.
	Root() string

	// Branch returns the checked-out branch name. It returns "" when HEAD is
	// detached.
	Branch() (string, error)
}

// Subscription is an active change subscription.
type Subscription interface {
	Close() error
}

// Integration opens repositories and reports their state changes.
type Integration interface {
	// Open binds the repository containing folder.
	// Returns ErrNoRepository if there is none.
	Open(folder string) (Repository, error)

	// Watch calls onChange whenever the repository state may have changed.
	// Notifications are coarse: many of them do not involve a branch switch.
	Watch(repo Repository, onChange func()) (Subscription, error)
}
