package branchconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/danieljhkim/snapbranch/internal/clock"
	"github.com/danieljhkim/snapbranch/internal/config"
	"github.com/danieljhkim/snapbranch/internal/editor"
	"github.com/danieljhkim/snapbranch/internal/fsops"
	"github.com/danieljhkim/snapbranch/internal/logging"
	"github.com/danieljhkim/snapbranch/internal/notify"
	"github.com/danieljhkim/snapbranch/internal/settings"
	"github.com/danieljhkim/snapbranch/internal/state"
)

type fixture struct {
	store    *Store
	state    *state.MemoryStore
	editor   *editor.FakeEditor
	settings *settings.FakeSettings
	notes    *notify.Recorder
	clock    *clock.FakeClock
	features *config.Features
}

// mutableFeatures lets tests flip toggles between operations.
type mutableFeatures struct {
	f *config.Features
}

func (m mutableFeatures) Features() config.Features {
	return *m.f
}

func allFeatures() config.Features {
	f := config.DefaultFeatures()
	f.IncludeWorkspaceSettings = true
	return f
}

func newFixture(t *testing.T, features config.Features) *fixture {
	t.Helper()
	fx := &fixture{
		state:    state.NewMemoryStore(),
		editor:   editor.NewFakeEditor(),
		settings: settings.NewFakeSettings(nil),
		notes:    &notify.Recorder{},
		clock:    clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		features: &features,
	}
	fx.store = New(fx.state, fx.editor, fx.settings, mutableFeatures{fx.features}, fx.notes, fx.clock, logging.Discard())
	return fx
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		OpenFiles: []string{"/repo/a.go", "/repo/b.go"},
		EditorLayout: &EditorLayout{
			ActiveFile:   "/repo/b.go",
			VisibleFiles: []string{"/repo/a.go", "/repo/b.go"},
		},
		WorkspaceSettings: map[string]any{
			"editor.fontSize": float64(14),
			"editor.rulers":   []any{float64(80), float64(120)},
		},
	}
}

func TestStore_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	snap := sampleSnapshot()

	res := fx.store.Save(ctx, "feature/x", snap)
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Save outcome = %v, err = %v", res.Outcome, res.Err)
	}

	configs, err := fx.store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	cfg, ok := configs["feature/x"]
	if !ok {
		t.Fatalf("List missing branch, got %v", configs)
	}
	if cfg.BranchName != "feature/x" {
		t.Errorf("BranchName = %q", cfg.BranchName)
	}
	if cfg.Timestamp != fx.clock.Now().UnixMilli() || cfg.Timestamp == 0 {
		t.Errorf("Timestamp = %d, want %d", cfg.Timestamp, fx.clock.Now().UnixMilli())
	}
	if !reflect.DeepEqual(cfg.OpenFiles, snap.OpenFiles) {
		t.Errorf("OpenFiles = %v, want %v", cfg.OpenFiles, snap.OpenFiles)
	}
	if !reflect.DeepEqual(cfg.EditorLayout, snap.EditorLayout) {
		t.Errorf("EditorLayout = %+v, want %+v", cfg.EditorLayout, snap.EditorLayout)
	}
	if !reflect.DeepEqual(cfg.WorkspaceSettings, snap.WorkspaceSettings) {
		t.Errorf("WorkspaceSettings = %v, want %v", cfg.WorkspaceSettings, snap.WorkspaceSettings)
	}

	saved := fx.notes.All()
	if len(saved) != 1 || saved[0].Message != "Workspace configuration saved for branch: feature/x" {
		t.Fatalf("unexpected notifications: %+v", saved)
	}
	if len(saved[0].Actions) != 1 || saved[0].Actions[0] != ShowConfigsAction {
		t.Errorf("expected Show Configs action, got %+v", saved[0].Actions)
	}
}

func TestStore_SettingValuesReadBackAsJSON(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())

	snap := Snapshot{WorkspaceSettings: map[string]any{
		"editor.fontSize": 14,
		"editor.rulers":   []int{80, 120},
	}}
	if res := fx.store.Save(ctx, "main", snap); res.Outcome != OutcomeSuccess {
		t.Fatalf("Save = %+v", res)
	}

	cfg, found, err := fx.store.Get(ctx, "main")
	if err != nil || !found {
		t.Fatalf("Get = %v, %v", found, err)
	}
	want := map[string]any{
		"editor.fontSize": float64(14),
		"editor.rulers":   []any{float64(80), float64(120)},
	}
	if !reflect.DeepEqual(cfg.WorkspaceSettings, want) {
		t.Errorf("WorkspaceSettings = %#v, want %#v", cfg.WorkspaceSettings, want)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())

	first := sampleSnapshot()
	second := Snapshot{OpenFiles: []string{"/repo/c.go"}}

	fx.store.Save(ctx, "main", first)
	fx.clock.Advance(time.Minute)
	fx.store.Save(ctx, "main", second)

	configs, err := fx.store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(configs) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(configs))
	}
	cfg := configs["main"]
	if !reflect.DeepEqual(cfg.OpenFiles, []string{"/repo/c.go"}) {
		t.Errorf("OpenFiles = %v", cfg.OpenFiles)
	}
	if cfg.EditorLayout != nil {
		t.Errorf("EditorLayout from first save leaked: %+v", cfg.EditorLayout)
	}
	if len(cfg.WorkspaceSettings) != 0 {
		t.Errorf("WorkspaceSettings from first save leaked: %v", cfg.WorkspaceSettings)
	}
	if cfg.Timestamp != fx.clock.Now().UnixMilli() {
		t.Errorf("Timestamp = %d, want second save time", cfg.Timestamp)
	}
}

func TestStore_SaveQuietly(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())

	res := fx.store.SaveQuietly(ctx, "main", sampleSnapshot())
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if n := len(fx.notes.All()); n != 0 {
		t.Errorf("quiet save emitted %d notifications", n)
	}
	if !fx.store.Has(ctx, "main") {
		t.Error("quiet save did not persist")
	}
}

func TestStore_SaveFailure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		quiet      bool
		wantErrors int
	}{
		{"loud", false, 1},
		{"quiet", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, allFeatures())
			fx.state.SetError(errors.New("disk full"))

			var res Result
			if tt.quiet {
				res = fx.store.SaveQuietly(ctx, "main", sampleSnapshot())
			} else {
				res = fx.store.Save(ctx, "main", sampleSnapshot())
			}

			if res.Outcome != OutcomeFailed || res.Err == nil {
				t.Fatalf("Result = %+v, want failed with error", res)
			}
			if got := fx.notes.Count(notify.LevelError); got != tt.wantErrors {
				t.Errorf("error notifications = %d, want %d", got, tt.wantErrors)
			}
			if got := fx.notes.Count(notify.LevelInfo); got != 0 {
				t.Errorf("unexpected success notification")
			}
		})
	}
}

func TestStore_EmptyBranch(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())

	for name, res := range map[string]Result{
		"save":    fx.store.Save(ctx, "", sampleSnapshot()),
		"quiet":   fx.store.SaveQuietly(ctx, "", sampleSnapshot()),
		"restore": fx.store.Restore(ctx, ""),
		"delete":  fx.store.Delete(ctx, ""),
	} {
		if !errors.Is(res.Err, ErrEmptyBranch) {
			t.Errorf("%s: Err = %v, want ErrEmptyBranch", name, res.Err)
		}
	}

	keys, _ := fx.state.Keys()
	if len(keys) != 0 {
		t.Errorf("empty branch stored keys %v", keys)
	}
}

func TestStore_RestoreMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.editor = editor.NewFakeEditor(editor.Document{Path: "/repo/open.go"})
	fx.store.editor = fx.editor

	writesBefore := fx.state.Writes()
	res := fx.store.Restore(ctx, "never-saved")

	if res.Outcome != OutcomeNoOp || res.Err != nil {
		t.Fatalf("Result = %+v, want no-op", res)
	}
	if fx.editor.CloseAllCalls() != 0 || len(fx.editor.Opened()) != 0 {
		t.Error("restore of unsaved branch touched the editor")
	}
	if len(fx.settings.Writes()) != 0 {
		t.Error("restore of unsaved branch wrote settings")
	}
	if fx.state.Writes() != writesBefore {
		t.Error("restore of unsaved branch wrote state")
	}
	if n := len(fx.notes.All()); n != 0 {
		t.Errorf("expected no notifications, got %d", n)
	}
}

func TestStore_RestoreApplies(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.store.Save(ctx, "main", sampleSnapshot())
	fx.notes.Reset()

	res := fx.store.Restore(ctx, "main")
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Result = %+v", res)
	}

	if fx.editor.CloseAllCalls() != 1 {
		t.Errorf("CloseAllCalls = %d, want 1", fx.editor.CloseAllCalls())
	}
	wantOpened := []string{"/repo/a.go", "/repo/b.go", "/repo/b.go"}
	if !reflect.DeepEqual(fx.editor.Opened(), wantOpened) {
		t.Errorf("Opened = %v, want %v", fx.editor.Opened(), wantOpened)
	}
	wantWrites := []string{"editor.fontSize", "editor.rulers"}
	if !reflect.DeepEqual(fx.settings.Writes(), wantWrites) {
		t.Errorf("settings writes = %v, want %v", fx.settings.Writes(), wantWrites)
	}

	all := fx.notes.All()
	if len(all) != 1 || all[0].Message != "Workspace configuration restored for branch: main" {
		t.Errorf("unexpected notifications: %+v", all)
	}
}

func TestStore_RestorePartial(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.store.Save(ctx, "main", Snapshot{
		OpenFiles: []string{"/repo/one.go", "/repo/two.go", "/repo/three.go"},
		WorkspaceSettings: map[string]any{
			"editor.fontSize":      float64(12),
			"workbench.colorTheme": "Solarized",
		},
	})
	fx.editor.FailOpen("/repo/two.go")
	fx.settings.FailSet("editor.fontSize", errors.New("read-only"))

	res := fx.store.Restore(ctx, "main")

	if res.Outcome != OutcomePartial {
		t.Fatalf("Outcome = %v, want partial", res.Outcome)
	}
	if !reflect.DeepEqual(fx.editor.Opened(), []string{"/repo/one.go", "/repo/three.go"}) {
		t.Errorf("Opened = %v", fx.editor.Opened())
	}
	if !reflect.DeepEqual(fx.settings.Writes(), []string{"workbench.colorTheme"}) {
		t.Errorf("settings writes = %v", fx.settings.Writes())
	}

	kinds := map[ItemKind]string{}
	for _, f := range res.Failures {
		kinds[f.Kind] = f.Item
	}
	want := map[ItemKind]string{ItemFile: "/repo/two.go", ItemSetting: "editor.fontSize"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("failures = %v, want %v", kinds, want)
	}
}

func TestStore_RestoreEmptyFileListKeepsEditors(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.store.Save(ctx, "main", Snapshot{})

	fx.store.Restore(ctx, "main")

	if fx.editor.CloseAllCalls() != 0 {
		t.Error("editors were closed for a configuration with no files")
	}
}

func TestStore_RestoreReadFailure(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.store.Save(ctx, "main", sampleSnapshot())
	fx.state.SetError(errors.New("io error"))

	res := fx.store.Restore(ctx, "main")
	if res.Outcome != OutcomeFailed || res.Err == nil {
		t.Fatalf("Result = %+v, want failed", res)
	}
	if fx.notes.Count(notify.LevelError) != 1 {
		t.Error("expected an error notification")
	}
}

func TestStore_RestoreIntoNullSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vscode", "settings.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("null"), 0644); err != nil {
		t.Fatal(err)
	}

	features := allFeatures()
	set := settings.NewWorkspaceFile(fsops.NewRealFS(), path)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := New(state.NewMemoryStore(), editor.NewFakeEditor(), set, mutableFeatures{&features}, &notify.Recorder{}, clk, logging.Discard())
	ctx := context.Background()

	snap := Snapshot{WorkspaceSettings: map[string]any{"editor.fontSize": float64(12)}}
	if res := store.Save(ctx, "main", snap); res.Outcome != OutcomeSuccess {
		t.Fatalf("Save = %+v", res)
	}

	res := store.Restore(ctx, "main")
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Restore = %+v", res)
	}
	v, ok, err := set.Get(ctx, "editor.fontSize")
	if err != nil || !ok || v != float64(12) {
		t.Errorf("editor.fontSize = %v, %v, %v; want 12", v, ok, err)
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.store.Save(ctx, "main", sampleSnapshot())

	outcomes := []Outcome{
		fx.store.Delete(ctx, "main").Outcome,
		fx.store.Delete(ctx, "main").Outcome,
		fx.store.Delete(ctx, "never-saved").Outcome,
	}
	want := []Outcome{OutcomeSuccess, OutcomeNoOp, OutcomeNoOp}
	if !reflect.DeepEqual(outcomes, want) {
		t.Errorf("outcomes = %v, want %v", outcomes, want)
	}
	if fx.store.Has(ctx, "main") {
		t.Error("configuration still present after delete")
	}
	if fx.notes.Count(notify.LevelError) != 0 {
		t.Error("delete produced an error notification")
	}
}

func TestStore_ListIgnoresOtherKeys(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.store.Save(ctx, "b", Snapshot{})
	fx.store.Save(ctx, "a", Snapshot{})
	if err := fx.state.Set("snapbranch.firstActivation", false); err != nil {
		t.Fatal(err)
	}

	branches, err := fx.store.Branches(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(branches, []string{"a", "b"}) {
		t.Errorf("Branches = %v", branches)
	}
}

func TestStore_ToggleGating(t *testing.T) {
	ctx := context.Background()

	live := map[string]any{
		"editor.fontSize":         float64(16),
		"editor.wordWrap":         "on",
		"editor.tabSize":          float64(2),
		"workbench.startupEditor": "none",
	}

	tests := []struct {
		name         string
		includeSet   bool
		wantSettings map[string]any
	}{
		{
			name:         "settings disabled",
			includeSet:   false,
			wantSettings: map[string]any{},
		},
		{
			name:       "settings enabled",
			includeSet: true,
			wantSettings: map[string]any{
				"editor.fontSize": float64(16),
				"editor.wordWrap": "on",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features := config.DefaultFeatures()
			features.IncludeWorkspaceSettings = tt.includeSet
			fx := newFixture(t, features)
			fx.settings = settings.NewFakeSettings(live)
			fx.store.settings = fx.settings

			fx.store.Save(ctx, "main", fx.store.Capture(ctx))

			cfg, found, err := fx.store.Get(ctx, "main")
			if err != nil || !found {
				t.Fatalf("Get = %v, %v", found, err)
			}
			if !reflect.DeepEqual(cfg.WorkspaceSettings, tt.wantSettings) {
				t.Errorf("WorkspaceSettings = %v, want %v", cfg.WorkspaceSettings, tt.wantSettings)
			}
		})
	}
}

func TestStore_SaveDropsDisabledParts(t *testing.T) {
	ctx := context.Background()
	features := config.DefaultFeatures()
	features.IncludeEditorLayout = false
	fx := newFixture(t, features)

	fx.store.Save(ctx, "main", sampleSnapshot())

	cfg, _, _ := fx.store.Get(ctx, "main")
	if cfg.EditorLayout != nil {
		t.Errorf("EditorLayout = %+v, want absent", cfg.EditorLayout)
	}
	if len(cfg.WorkspaceSettings) != 0 {
		t.Errorf("WorkspaceSettings = %v, want empty", cfg.WorkspaceSettings)
	}
}

func TestStore_TogglesReadPerOperation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.store.Save(ctx, "main", sampleSnapshot())

	fx.features.IncludeOpenFiles = false
	fx.features.IncludeWorkspaceSettings = false
	fx.store.Restore(ctx, "main")

	if fx.editor.CloseAllCalls() != 0 {
		t.Error("open files applied after toggle was turned off")
	}
	if len(fx.settings.Writes()) != 0 {
		t.Error("settings applied after toggle was turned off")
	}
	if !reflect.DeepEqual(fx.editor.Opened(), []string{"/repo/b.go"}) {
		t.Errorf("expected only the active file to be focused, got %v", fx.editor.Opened())
	}
}

func TestStore_Capture(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.editor = editor.NewFakeEditor(
		editor.Document{Path: "/repo/a.go", Scheme: "file"},
		editor.Document{Path: "Untitled-1", Scheme: "untitled", Untitled: true},
		editor.Document{Path: "/repo/a.go", Scheme: "git"},
		editor.Document{Path: "/repo/b.go"},
	)
	fx.editor.SetActive("/repo/b.go")
	fx.editor.SetVisible("/repo/a.go", "/repo/b.go")
	fx.store.editor = fx.editor
	fx.settings = settings.NewFakeSettings(map[string]any{"editor.minimap.enabled": false})
	fx.store.settings = fx.settings

	snap := fx.store.Capture(ctx)

	want := Snapshot{
		OpenFiles: []string{"/repo/a.go", "/repo/b.go"},
		EditorLayout: &EditorLayout{
			ActiveFile:   "/repo/b.go",
			VisibleFiles: []string{"/repo/a.go", "/repo/b.go"},
		},
		WorkspaceSettings: map[string]any{"editor.minimap.enabled": false},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("Capture = %+v, want %+v", snap, want)
	}
}

func TestStore_CaptureEditorError(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, allFeatures())
	fx.editor.SetError(errors.New("bridge offline"))

	snap := fx.store.Capture(ctx)

	if snap.OpenFiles == nil || len(snap.OpenFiles) != 0 {
		t.Errorf("OpenFiles = %v, want empty", snap.OpenFiles)
	}
	if snap.EditorLayout == nil || snap.EditorLayout.ActiveFile != "" {
		t.Errorf("EditorLayout = %+v", snap.EditorLayout)
	}
}

func TestBranchFromKey(t *testing.T) {
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"branchConfig_main", "main", true},
		{"branchConfig_feature/x", "feature/x", true},
		{"branchConfig_", "", false},
		{"snapbranch.autoSwitch", "", false},
	}
	for _, tt := range tests {
		got, ok := BranchFromKey(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("BranchFromKey(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
	if Key("main") != "branchConfig_main" {
		t.Errorf("Key(main) = %q", Key("main"))
	}
}
