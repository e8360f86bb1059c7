package engine

import (
	"fmt"

	"github.com/danieljhkim/snapbranch/internal/notify"
)

// AutoSwitchEnabled reports whether branch changes save and restore
// configurations. Defaults to true; read errors count as enabled.
func (e *Engine) AutoSwitchEnabled() bool {
	enabled := true
	if _, err := e.global.Get(AutoSwitchKey, &enabled); err != nil {
		e.logger.Warn("failed to read auto-switch state", "error", err)
		return true
	}
	return enabled
}

// ToggleAutoSwitch flips and persists the auto-switch state.
func (e *Engine) ToggleAutoSwitch() (*ToggleResult, error) {
	enabled := !e.AutoSwitchEnabled()
	if err := e.global.Set(AutoSwitchKey, enabled); err != nil {
		return nil, fmt.Errorf("failed to save auto-switch state: %w", err)
	}

	word := "disabled"
	if enabled {
		word = "enabled"
	}
	e.logger.Info("toggled auto-switch", "enabled", enabled)
	e.notifier.Notify(notify.Info("Branch workspace auto-switching " + word))
	return &ToggleResult{AutoSwitch: enabled}, nil
}
