package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/danieljhkim/snapbranch/internal/fsops"
)

// SchemaVersion is the version written into every state document.
const SchemaVersion = "1.0.0"

// ErrUnsupportedSchema indicates a state document written by a newer, incompatible version.
var ErrUnsupportedSchema = errors.New("unsupported state schema")

// Store provides keyed persistence of JSON values.
// Every Set and Delete is durable by itself; there is no transaction spanning keys.
type Store interface {
	// Get decodes the value stored under key into out.
	// Returns false if the key is absent.
	Get(key string, out any) (bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value any) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns every stored key in sorted order.
	Keys() ([]string, error)
}

// document is the on-disk layout of a state file.
type document struct {
	Schema  string                     `json:"schema"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// FileStore implements Store using a single JSON file.
type FileStore struct {
	fs   fsops.FS
	path string
	mu   sync.Mutex
}

// NewFileStore creates a new FileStore backed by path.
func NewFileStore(fs fsops.FS, path string) *FileStore {
	return &FileStore{
		fs:   fs,
		path: path,
	}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get decodes the value stored under key into out.
func (s *FileStore) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	raw, ok := doc.Entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key.
func (s *FileStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Entries[key] = raw

	return s.write(doc)
}

// Delete removes key.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)

	return s.write(doc)
}

// Keys returns every stored key in sorted order.
func (s *FileStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedKeys(doc.Entries), nil
}

// load reads the state document. A missing file is an empty document.
func (s *FileStore) load() (*document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{Schema: SchemaVersion, Entries: map[string]json.RawMessage{}}, nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if err := checkSchema(doc.Schema); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]json.RawMessage{}
	}
	doc.Schema = SchemaVersion

	return &doc, nil
}

func (s *FileStore) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	return nil
}

// checkSchema accepts documents from the same major version or older.
// An empty schema predates versioning and is accepted.
func checkSchema(schema string) error {
	if schema == "" {
		return nil
	}

	v, err := semver.NewVersion(schema)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedSchema, schema, err)
	}

	supported := semver.MustParse(SchemaVersion)
	if v.Major() > supported.Major() {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedSchema, v, supported)
	}

	return nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
