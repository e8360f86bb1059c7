// Package editor exposes the live editor state that gets snapshotted per
// branch: open documents, the active document and the visible documents.
//
// The host editor is reached through a session document: a small JSON file
// that an editor-side bridge keeps in sync with the real window, and that
// snapbranch rewrites when it restores a branch. An optional Launcher also
// asks a running editor to open each restored file directly.
package editor

import (
	"context"
	"errors"
)

// ErrOpenFailed wraps every failure to open a file in the editor.
var ErrOpenFailed = errors.New("failed to open file")

// Scheme of documents backed by a file on disk.
const SchemeFile = "file"

// Document is one open editor document.
type Document struct {
	// Path is the absolute filesystem path (or the URI path for non-file schemes).
	Path string `json:"path"`

	// Scheme is the URI scheme; empty means "file".
	Scheme string `json:"scheme,omitempty"`

	// Untitled marks transient documents that were never saved.
	Untitled bool `json:"untitled,omitempty"`
}

// IsFileBacked reports whether the document is a saved file on disk.
func (d Document) IsFileBacked() bool {
	if d.Untitled {
		return false
	}
	return d.Scheme == "" || d.Scheme == SchemeFile
}

// Editor is the narrow view of the host editor used for capture and apply.
type Editor interface {
	// Documents lists the open documents in the editor's current order.
	Documents(ctx context.Context) ([]Document, error)

	// ActiveFile returns the path of the focused document, if any.
	ActiveFile(ctx context.Context) (string, bool, error)

	// VisibleFiles lists the paths of the documents currently shown.
	VisibleFiles(ctx context.Context) ([]string, error)

	// CloseAll closes every open editor. Unsaved state is discarded.
	CloseAll(ctx context.Context) error

	// OpenFile opens path and focuses it. Fails if the path is missing or unreadable.
	OpenFile(ctx context.Context, path string) error
}
