package state

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danieljhkim/snapbranch/internal/fsops"
)

type sample struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(fsops.NewRealFS(), filepath.Join(t.TempDir(), "workspaces", "ws.json"))
}

func TestStores_Contract(t *testing.T) {
	impls := map[string]func(t *testing.T) Store{
		"file":   func(t *testing.T) Store { return newTestFileStore(t) },
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
	}

	for name, newStore := range impls {
		t.Run(name, func(t *testing.T) {
			t.Run("get on empty store", func(t *testing.T) {
				s := newStore(t)
				var out sample
				found, err := s.Get("missing", &out)
				if err != nil {
					t.Fatalf("Get error: %v", err)
				}
				if found {
					t.Error("expected missing key to be not found")
				}
			})

			t.Run("set then get", func(t *testing.T) {
				s := newStore(t)
				in := sample{Name: "main", Files: []string{"/a.go", "/b.go"}}
				if err := s.Set("k", in); err != nil {
					t.Fatalf("Set error: %v", err)
				}

				var out sample
				found, err := s.Get("k", &out)
				if err != nil || !found {
					t.Fatalf("Get = %v, %v; want found", found, err)
				}
				if !reflect.DeepEqual(in, out) {
					t.Errorf("Get = %+v, want %+v", out, in)
				}
			})

			t.Run("set overwrites", func(t *testing.T) {
				s := newStore(t)
				_ = s.Set("k", sample{Name: "first", Files: []string{"/x"}})
				_ = s.Set("k", sample{Name: "second"})

				var out sample
				if _, err := s.Get("k", &out); err != nil {
					t.Fatalf("Get error: %v", err)
				}
				if out.Name != "second" || len(out.Files) != 0 {
					t.Errorf("expected second value only, got %+v", out)
				}

				keys, _ := s.Keys()
				if len(keys) != 1 {
					t.Errorf("expected one key, got %v", keys)
				}
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				s := newStore(t)
				_ = s.Set("k", sample{Name: "x"})

				for i := 0; i < 2; i++ {
					if err := s.Delete("k"); err != nil {
						t.Fatalf("Delete #%d error: %v", i+1, err)
					}
				}
				if err := s.Delete("never-set"); err != nil {
					t.Fatalf("Delete of absent key error: %v", err)
				}

				var out sample
				if found, _ := s.Get("k", &out); found {
					t.Error("expected key to be gone")
				}
			})

			t.Run("keys are sorted", func(t *testing.T) {
				s := newStore(t)
				for _, k := range []string{"b", "c", "a"} {
					_ = s.Set(k, true)
				}
				keys, err := s.Keys()
				if err != nil {
					t.Fatalf("Keys error: %v", err)
				}
				if !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
					t.Errorf("Keys = %v", keys)
				}
			})
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.json")
	first := NewFileStore(fsops.NewRealFS(), path)
	if err := first.Set("flag", false); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	second := NewFileStore(fsops.NewRealFS(), path)
	var flag = true
	found, err := second.Get("flag", &flag)
	if err != nil || !found {
		t.Fatalf("Get = %v, %v", found, err)
	}
	if flag {
		t.Error("expected flag=false to survive a new instance")
	}
}

func TestFileStore_Schema(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "current", content: `{"schema":"1.0.0","entries":{}}`},
		{name: "older minor", content: `{"schema":"1.0.0","entries":{"a":1}}`},
		{name: "newer minor", content: `{"schema":"1.4.2","entries":{}}`},
		{name: "unversioned", content: `{"entries":{"a":1}}`},
		{name: "newer major", content: `{"schema":"2.0.0","entries":{}}`, wantErr: true},
		{name: "garbage version", content: `{"schema":"not-a-version","entries":{}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ws.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write state: %v", err)
			}

			_, err := NewFileStore(fsops.NewRealFS(), path).Keys()
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedSchema) {
					t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Keys error: %v", err)
			}
		})
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write state: %v", err)
	}

	s := NewFileStore(fsops.NewRealFS(), path)
	if err := s.Set("k", 1); err == nil {
		t.Fatal("expected Set to fail on a corrupt state file")
	}
}

func TestMemoryStore_SetError(t *testing.T) {
	s := NewMemoryStore()
	boom := errors.New("disk full")
	s.SetError(boom)

	if err := s.Set("k", 1); !errors.Is(err, boom) {
		t.Errorf("Set error = %v, want %v", err, boom)
	}
	if _, err := s.Keys(); !errors.Is(err, boom) {
		t.Errorf("Keys error = %v, want %v", err, boom)
	}

	s.SetError(nil)
	if err := s.Set("k", 1); err != nil {
		t.Errorf("Set after clearing error: %v", err)
	}
	if s.Writes() != 1 {
		t.Errorf("Writes = %d, want 1", s.Writes())
	}
}
