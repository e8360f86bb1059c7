// Package state provides keyed, durable storage scoped to one workspace.
//
// A Store maps string keys to JSON values. The file-backed implementation
// keeps one JSON document per workspace under ~/.snapbranch/workspaces/,
// plus a global document for flags shared across workspaces.
//
// Key concepts:
//   - Store: Get/Set/Delete/Keys over JSON values
//   - FileStore: one document per workspace, each write atomic on its own
//   - MemoryStore: in-process Store for tests, values still round-trip through JSON
//   - WorkspaceID: stable identifier derived from the workspace root path
//
// FileStore serializes writers within one process only. Each Set or Delete
// reads the whole document and renames a new one over it, so two processes
// writing the same workspace at once (a manual save while watch runs) can
// lose the other's update, even to a different key.
package state
