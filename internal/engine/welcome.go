package engine

import (
	"fmt"

	"github.com/danieljhkim/snapbranch/internal/notify"
)

// ShowCommandsAction is offered with the welcome message.
var ShowCommandsAction = notify.Action{Label: "Show Commands", Command: "snapbranch --help"}

// Welcome shows the first-run message once. It reports whether the message
// was shown.
func (e *Engine) Welcome() (bool, error) {
	first := true
	if _, err := e.global.Get(FirstActivationKey, &first); err != nil {
		return false, fmt.Errorf("failed to read first activation flag: %w", err)
	}
	if !first {
		return false, nil
	}

	if err := e.global.Set(FirstActivationKey, false); err != nil {
		return false, fmt.Errorf("failed to save first activation flag: %w", err)
	}

	if e.branches.IsAvailable() {
		e.notifier.Notify(notify.Info(
			"snapbranch is now active! Your workspace configurations will be automatically managed per Git branch.",
			ShowCommandsAction,
		))
	} else {
		e.notifier.Notify(notify.Info("snapbranch is active but no Git repository detected in current workspace."))
	}
	return true, nil
}
