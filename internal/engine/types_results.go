package engine

import (
	"time"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
	"github.com/danieljhkim/snapbranch/internal/reactor"
	"github.com/danieljhkim/snapbranch/internal/status"
)

// SwitchResult describes what a branch change triggered.
type SwitchResult struct {
	Event reactor.Event

	// AutoSwitch is the pause state at the time of the change.
	AutoSwitch bool

	// Saved is the quiet save of the previous branch; nil if skipped.
	Saved *branchconfig.Result

	// Restored is the restore of the new branch; nil if skipped.
	Restored *branchconfig.Result
}

// ConfigSummary describes one stored configuration.
type ConfigSummary struct {
	Branch     string    `json:"branch"`
	SavedAt    time.Time `json:"savedAt"`
	Files      int       `json:"files"`
	Settings   int       `json:"settings"`
	ActiveFile string    `json:"activeFile,omitempty"`
	Current    bool      `json:"current"`
}

// ListResult lists the stored configurations of the workspace.
type ListResult struct {
	// CurrentBranch is empty when no branch is checked out.
	CurrentBranch string          `json:"currentBranch,omitempty"`
	Configs       []ConfigSummary `json:"configs"`
}

// StatusResult represents the current workspace status.
type StatusResult struct {
	// WorkspaceRoot is the folder the configurations belong to
	WorkspaceRoot string `json:"workspaceRoot"`

	// Available reports whether a repository is bound
	Available bool `json:"available"`

	// Repository is the root of the bound repository (empty if none)
	Repository string `json:"repository,omitempty"`

	// Branch is the current branch (empty if none)
	Branch string `json:"branch,omitempty"`

	// Saved reports whether Branch has a stored configuration
	Saved bool `json:"saved"`

	// AutoSwitch is false while auto-switching is paused
	AutoSwitch bool `json:"autoSwitch"`

	// ConfigCount is the number of stored configurations
	ConfigCount int `json:"configCount"`

	// Line is the rendered status line
	Line status.Line `json:"line"`
}

// ToggleResult reports the auto-switch state after a toggle.
type ToggleResult struct {
	AutoSwitch bool `json:"autoSwitch"`
}

// WorkspaceRecord is stored in every workspace state file to identify it.
type WorkspaceRecord struct {
	Path     string `json:"path"`
	LastSeen int64  `json:"lastSeen"`
}

// WorkspaceInfo contains summary information about a workspace.
type WorkspaceInfo struct {
	WorkspaceID   string    `json:"workspaceId"`
	WorkspacePath string    `json:"workspacePath"`
	LastSeen      time.Time `json:"lastSeen"`
	ConfigCount   int       `json:"configCount"`
}

// ListWorkspacesResult contains the list of all known workspaces.
type ListWorkspacesResult struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

// DeleteWorkspaceResult reports a removed workspace state file.
type DeleteWorkspaceResult struct {
	WorkspaceID   string `json:"workspaceId"`
	WorkspacePath string `json:"workspacePath"`
	ConfigCount   int    `json:"configCount"`
	Deleted       bool   `json:"deleted"`
	DryRun        bool   `json:"dryRun"`
}
