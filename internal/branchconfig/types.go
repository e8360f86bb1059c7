package branchconfig

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// KeyPrefix prefixes every branch configuration key in the state store.
const KeyPrefix = "branchConfig_"

// WorkspaceSettingKeys is the allow-list of settings captured per branch.
var WorkspaceSettingKeys = []string{
	"editor.fontSize",
	"editor.wordWrap",
	"editor.minimap.enabled",
	"workbench.colorTheme",
	"files.exclude",
	"search.exclude",
	"editor.rulers",
	"problems.decorations.enabled",
}

var (
	// ErrEmptyBranch is returned for operations on an empty branch name.
	ErrEmptyBranch = errors.New("branch name is empty")
)

// Key returns the state store key for branch.
func Key(branch string) string {
	return KeyPrefix + branch
}

// BranchFromKey extracts the branch name from a state store key.
func BranchFromKey(key string) (string, bool) {
	branch, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok || branch == "" {
		return "", false
	}
	return branch, true
}

// EditorLayout is the captured focus and visibility state.
type EditorLayout struct {
	// ActiveFile is the focused document; empty when nothing was focused.
	ActiveFile string `json:"activeEditor,omitempty"`

	// VisibleFiles are the documents that were shown.
	VisibleFiles []string `json:"visibleEditors"`
}

// BranchConfiguration is the stored snapshot for one branch.
// It is replaced as a whole on every save.
type BranchConfiguration struct {
	BranchName string `json:"branchName"`

	// Timestamp is the capture time in milliseconds since the epoch.
	Timestamp int64 `json:"timestamp"`

	OpenFiles         []string       `json:"openFiles"`
	EditorLayout      *EditorLayout  `json:"editorLayout,omitempty"`
	WorkspaceSettings map[string]any `json:"workspaceSettings"`
}

// Snapshot is the live state captured at save time.
type Snapshot struct {
	OpenFiles    []string
	EditorLayout *EditorLayout

	// WorkspaceSettings values are stored as JSON and read back in decoded
	// form: numbers come back as float64, arrays as []any, objects as
	// map[string]any.
	WorkspaceSettings map[string]any
}

// Snapshot returns the captured fields of the configuration.
func (c BranchConfiguration) Snapshot() Snapshot {
	return Snapshot{
		OpenFiles:         slices.Clone(c.OpenFiles),
		EditorLayout:      c.EditorLayout.clone(),
		WorkspaceSettings: maps.Clone(c.WorkspaceSettings),
	}
}

func (l *EditorLayout) clone() *EditorLayout {
	if l == nil {
		return nil
	}
	return &EditorLayout{
		ActiveFile:   l.ActiveFile,
		VisibleFiles: slices.Clone(l.VisibleFiles),
	}
}

// Outcome classifies the result of a store operation.
type Outcome int

const (
	// OutcomeSuccess means every step completed.
	OutcomeSuccess Outcome = iota

	// OutcomeNoOp means there was nothing to do, e.g. restoring an unsaved branch.
	OutcomeNoOp

	// OutcomePartial means some items failed and the rest were applied.
	OutcomePartial

	// OutcomeFailed means the operation was abandoned.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoOp:
		return "no-op"
	case OutcomePartial:
		return "partial"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ItemKind names the kind of item an apply step failed on.
type ItemKind string

const (
	ItemSetting    ItemKind = "setting"
	ItemFile       ItemKind = "file"
	ItemActiveFile ItemKind = "activeFile"
	ItemCloseAll   ItemKind = "closeAll"
)

// ItemFailure is one failed apply step.
type ItemFailure struct {
	Kind ItemKind
	Item string
	Err  error
}

// Result is the structured outcome of Save, Restore and Delete.
type Result struct {
	Branch   string
	Outcome  Outcome
	Failures []ItemFailure

	// Err is set when Outcome is OutcomeFailed.
	Err error
}

// OK reports whether the operation did not fail outright.
func (r Result) OK() bool {
	return r.Outcome != OutcomeFailed
}
