package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// List returns every stored configuration sorted by branch name.
func (e *Engine) List(ctx context.Context) (*ListResult, error) {
	configs, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}

	current, _ := e.branches.CurrentBranch()
	result := &ListResult{
		CurrentBranch: current,
		Configs:       make([]ConfigSummary, 0, len(configs)),
	}

	for branch, cfg := range configs {
		summary := ConfigSummary{
			Branch:   branch,
			SavedAt:  time.UnixMilli(cfg.Timestamp),
			Files:    len(cfg.OpenFiles),
			Settings: len(cfg.WorkspaceSettings),
			Current:  branch == current,
		}
		if cfg.EditorLayout != nil {
			summary.ActiveFile = cfg.EditorLayout.ActiveFile
		}
		result.Configs = append(result.Configs, summary)
	}

	slices.SortFunc(result.Configs, func(a, b ConfigSummary) int {
		return strings.Compare(a.Branch, b.Branch)
	})
	return result, nil
}
