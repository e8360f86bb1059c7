package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/danieljhkim/snapbranch/internal/fsops"
)

// Session is the on-disk layout of the session document.
type Session struct {
	Documents []Document `json:"documents"`
	Active    string     `json:"active,omitempty"`
	Visible   []string   `json:"visible"`
}

// SessionFile implements Editor over a session document.
type SessionFile struct {
	fs       fsops.FS
	path     string
	launcher Launcher
	mu       sync.Mutex
}

// NewSessionFile creates a SessionFile. launcher may be nil.
func NewSessionFile(fs fsops.FS, path string, launcher Launcher) *SessionFile {
	return &SessionFile{
		fs:       fs,
		path:     path,
		launcher: launcher,
	}
}

// Path returns the session document location.
func (s *SessionFile) Path() string {
	return s.path
}

// Documents lists the open documents.
func (s *SessionFile) Documents(ctx context.Context) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load()
	if err != nil {
		return nil, err
	}
	return sess.Documents, nil
}

// ActiveFile returns the focused document.
func (s *SessionFile) ActiveFile(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load()
	if err != nil {
		return "", false, err
	}
	return sess.Active, sess.Active != "", nil
}

// VisibleFiles lists the documents currently shown.
func (s *SessionFile) VisibleFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load()
	if err != nil {
		return nil, err
	}
	return sess.Visible, nil
}

// CloseAll empties the session.
func (s *SessionFile) CloseAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(&Session{Documents: []Document{}, Visible: []string{}})
}

// OpenFile checks that path is readable, hands it to the launcher and records
// it as the open, focused and only visible document (one editor group).
func (s *SessionFile) OpenFile(ctx context.Context, path string) error {
	if err := s.fs.Readable(path); err != nil {
		return fmt.Errorf("%w %s: %v", ErrOpenFailed, path, err)
	}

	if s.launcher != nil {
		if err := s.launcher.Open(ctx, path); err != nil {
			return fmt.Errorf("%w %s: %v", ErrOpenFailed, path, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load()
	if err != nil {
		return err
	}

	if !slices.ContainsFunc(sess.Documents, func(d Document) bool { return d.Path == path && d.IsFileBacked() }) {
		sess.Documents = append(sess.Documents, Document{Path: path, Scheme: SchemeFile})
	}
	sess.Active = path
	sess.Visible = []string{path}

	return s.write(sess)
}

// load reads the session document. A missing file is an empty session.
func (s *SessionFile) load() (*Session, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{Documents: []Document{}, Visible: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to read editor session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal editor session: %w", err)
	}
	if sess.Documents == nil {
		sess.Documents = []Document{}
	}
	if sess.Visible == nil {
		sess.Visible = []string{}
	}
	return &sess, nil
}

func (s *SessionFile) write(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal editor session: %w", err)
	}
	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write editor session: %w", err)
	}
	return nil
}

var _ Editor = (*SessionFile)(nil)
