package engine

import "errors"

var (
	// ErrNoBranch indicates no branch is checked out, or no repository is bound.
	ErrNoBranch = errors.New("no Git branch detected")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
)
