// Package status renders the one-line branch indicator and its tooltip.
package status

import "strings"

const (
	IconBranch = "⎇"
	IconPaused = "⏸"

	MarkSaved   = "●"
	MarkUnsaved = "○"
)

// Input is the state a status line is rendered from.
type Input struct {
	// Branch is the current branch; empty when no branch is known.
	Branch string

	// Saved reports whether a configuration is stored for Branch.
	Saved bool

	AutoSwitch bool

	// Show is the showStatusBar toggle.
	Show bool
}

// Line is a rendered status line.
type Line struct {
	Visible bool   `json:"visible"`
	Icon    string `json:"icon,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Saved   bool   `json:"saved"`
	Paused  bool   `json:"paused"`
	Text    string `json:"text,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}

// Render builds the status line for in.
func Render(in Input) Line {
	if !in.Show {
		return Line{}
	}

	if in.Branch == "" {
		return Line{
			Visible: true,
			Icon:    IconBranch,
			Paused:  !in.AutoSwitch,
			Text:    IconBranch + " No Git branch",
			Tooltip: "No Git repository found",
		}
	}

	icon := IconBranch
	if !in.AutoSwitch {
		icon = IconPaused
	}
	mark := MarkUnsaved
	if in.Saved {
		mark = MarkSaved
	}

	var tip strings.Builder
	tip.WriteString("Current branch: " + in.Branch + "\n")
	if in.Saved {
		tip.WriteString("Configuration saved")
	} else {
		tip.WriteString("No configuration saved")
	}
	if !in.AutoSwitch {
		tip.WriteString("\nAuto-switching disabled")
	}
	tip.WriteString("\n\nRun `snapbranch list` to manage configurations")

	return Line{
		Visible: true,
		Icon:    icon,
		Branch:  in.Branch,
		Saved:   in.Saved,
		Paused:  !in.AutoSwitch,
		Text:    icon + " " + in.Branch + " " + mark,
		Tooltip: tip.String(),
	}
}
