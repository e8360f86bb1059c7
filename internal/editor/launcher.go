package editor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Launcher asks a running editor to open a file.
type Launcher interface {
	Open(ctx context.Context, path string) error
}

// CodeLauncher opens files through the VS Code command line.
type CodeLauncher struct {
	command string
}

// NewCodeLauncher creates a CodeLauncher for the given "code" executable.
func NewCodeLauncher(command string) *CodeLauncher {
	return &CodeLauncher{command: command}
}

// ResolveCodeCommand looks up the VS Code "code" command in PATH.
// Returns false if it isn't installed.
func ResolveCodeCommand() (string, bool) {
	for _, name := range []string{"code", "code-insiders", "codium"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// Open runs `code --reuse-window <path>`.
func (l *CodeLauncher) Open(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, l.command, "--reuse-window", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s --reuse-window failed: %w: %s", l.command, err, strings.TrimSpace(string(output)))
	}
	return nil
}
