package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/aheadhealth/onboard/internal/overlay"
	"github.com/aheadhealth/onboard/internal/sequencer"
	"github.com/aheadhealth/onboard/internal/tui/styles"
)

// RenderOverlayBadge renders an overlay's progress for the status bar, e.g.
// "Loading 2/5 visible".
func RenderOverlayBadge(styleSet styles.Styles, state overlay.State) string {
	if !state.Mounted {
		return ""
	}
	icon, label, style := phaseDescriptor(styleSet, state)
	snap := state.Sequence
	progress := "-"
	if snap.Total > 0 {
		progress = fmt.Sprintf("%d/%d", snap.Index+1, snap.Total)
	}
	return style.Render(fmt.Sprintf("%s %s %s %s", icon, state.Label, progress, label))
}

func phaseDescriptor(styleSet styles.Styles, state overlay.State) (string, string, lipgloss.Style) {
	if state.Fading {
		return "~", "closing", styleSet.Muted
	}
	if state.Sequence.Clearing {
		return "~", "clearing", styleSet.Muted
	}
	switch state.Sequence.Phase {
	case sequencer.PhaseFadeIn:
		return ">", "fade-in", styleSet.Accent
	case sequencer.PhaseVisible:
		return "*", "visible", styleSet.Success
	case sequencer.PhaseFadeOut:
		return "<", "fade-out", styleSet.Accent
	default:
		return "-", "waiting", styleSet.Muted
	}
}
