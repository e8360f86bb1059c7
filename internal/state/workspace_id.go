package state

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// ComputeWorkspaceID computes a stable workspace ID from the absolute workspace
// root. This ID names the workspace's state file, so branch configurations
// saved in one checkout are never visible from another.
func ComputeWorkspaceID(workspaceRoot string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(workspaceRoot)))
	return hex.EncodeToString(hash[:])
}
