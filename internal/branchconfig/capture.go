package branchconfig

import (
	"context"
	"slices"
)

// Capture snapshots the live editor state that the current toggles select.
// Read failures are logged and leave the affected part empty.
func (s *Store) Capture(ctx context.Context) Snapshot {
	features := s.CurrentFeatureConfig()
	snap := Snapshot{
		OpenFiles:         []string{},
		WorkspaceSettings: make(map[string]any),
	}

	if features.IncludeOpenFiles {
		docs, err := s.editor.Documents(ctx)
		if err != nil {
			s.logger.Warn("failed to list open documents", "error", err)
		}
		for _, doc := range docs {
			if doc.IsFileBacked() {
				snap.OpenFiles = append(snap.OpenFiles, doc.Path)
			}
		}
	}

	if features.IncludeEditorLayout {
		layout := &EditorLayout{VisibleFiles: []string{}}
		if active, ok, err := s.editor.ActiveFile(ctx); err != nil {
			s.logger.Warn("failed to read active editor", "error", err)
		} else if ok {
			layout.ActiveFile = active
		}
		if visible, err := s.editor.VisibleFiles(ctx); err != nil {
			s.logger.Warn("failed to read visible editors", "error", err)
		} else if len(visible) > 0 {
			layout.VisibleFiles = slices.Clone(visible)
		}
		snap.EditorLayout = layout
	}

	if features.IncludeWorkspaceSettings {
		for _, key := range WorkspaceSettingKeys {
			value, ok, err := s.settings.Get(ctx, key)
			if err != nil {
				s.logger.Warn("failed to read setting", "key", key, "error", err)
				continue
			}
			if ok && value != nil {
				snap.WorkspaceSettings[key] = value
			}
		}
	}

	return snap
}
