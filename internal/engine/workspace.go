package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/danieljhkim/snapbranch/internal/branchconfig"
	"github.com/danieljhkim/snapbranch/internal/state"
)

// recordWorkspace stamps the workspace state file with its root so that
// ListWorkspaces can name it.
func (e *Engine) recordWorkspace() {
	if e.workspace == nil || e.workspaceRoot == "" {
		return
	}
	rec := WorkspaceRecord{Path: e.workspaceRoot, LastSeen: e.clock.Now().UnixMilli()}
	if err := e.workspace.Set(WorkspaceKey, rec); err != nil {
		e.logger.Warn("failed to record workspace", "root", e.workspaceRoot, "error", err)
	}
}

// ListWorkspaces enumerates all workspace state files and returns summary information.
// Corrupted files are skipped. The result is sorted by WorkspacePath.
func (e *Engine) ListWorkspaces(ctx context.Context) (*ListWorkspacesResult, error) {
	entries, err := os.ReadDir(e.configPaths.Workspaces)
	if err != nil {
		if os.IsNotExist(err) {
			return &ListWorkspacesResult{Workspaces: []WorkspaceInfo{}}, nil
		}
		return nil, fmt.Errorf("failed to read workspaces directory: %w", err)
	}

	workspaces := []WorkspaceInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		workspaceID := strings.TrimSuffix(entry.Name(), ".json")
		info, err := e.describeWorkspace(workspaceID)
		if err != nil {
			e.logger.Debug("skipping unreadable workspace", "id", workspaceID, "error", err)
			continue
		}
		workspaces = append(workspaces, *info)
	}

	slices.SortFunc(workspaces, func(a, b WorkspaceInfo) int {
		return strings.Compare(a.WorkspacePath, b.WorkspacePath)
	})

	return &ListWorkspacesResult{Workspaces: workspaces}, nil
}

// DeleteWorkspace removes a workspace state file and every configuration in it.
func (e *Engine) DeleteWorkspace(ctx context.Context, workspaceID string, dryRun bool) (*DeleteWorkspaceResult, error) {
	path := e.configPaths.WorkspaceState(workspaceID)
	exists, err := e.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check workspace: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: workspace '%s' not found", ErrNotFound, workspaceID)
	}

	info, err := e.describeWorkspace(workspaceID)
	if err != nil {
		info = &WorkspaceInfo{WorkspaceID: workspaceID}
	}

	result := &DeleteWorkspaceResult{
		WorkspaceID:   workspaceID,
		WorkspacePath: info.WorkspacePath,
		ConfigCount:   info.ConfigCount,
		DryRun:        dryRun,
	}
	if dryRun {
		return result, nil
	}

	if err := e.fs.Remove(path); err != nil {
		return nil, fmt.Errorf("failed to delete workspace state: %w", err)
	}
	e.logger.Info("deleted workspace", "id", workspaceID, "path", info.WorkspacePath)
	result.Deleted = true
	return result, nil
}

func (e *Engine) describeWorkspace(workspaceID string) (*WorkspaceInfo, error) {
	store := state.NewFileStore(e.fs, filepath.Join(e.configPaths.Workspaces, workspaceID+".json"))

	var rec WorkspaceRecord
	if _, err := store.Get(WorkspaceKey, &rec); err != nil {
		return nil, err
	}
	keys, err := store.Keys()
	if err != nil {
		return nil, err
	}

	count := 0
	for _, key := range keys {
		if _, ok := branchconfig.BranchFromKey(key); ok {
			count++
		}
	}

	info := &WorkspaceInfo{
		WorkspaceID:   workspaceID,
		WorkspacePath: rec.Path,
		ConfigCount:   count,
	}
	if rec.LastSeen > 0 {
		info.LastSeen = time.UnixMilli(rec.LastSeen)
	}
	return info, nil
}
