package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aheadhealth/onboard/internal/overlay"
	"github.com/aheadhealth/onboard/internal/sequencer"
	"github.com/aheadhealth/onboard/internal/tui/styles"
)

// SkipHint labels the skip key inside an overlay.
const SkipHint = "s skip"

// MessageRows lays a snapshot out as one row per line slot. Empty slots are
// blank so the box height stays fixed while messages come and go.
func MessageRows(styleSet styles.Styles, snap sequencer.Snapshot) []string {
	slots := snap.MaxLines
	if slots <= 0 {
		slots = sequencer.DefaultMaxLines
	}
	rows := make([]string, slots)

	for _, line := range snap.Lines() {
		if line.Row < 0 || line.Row >= slots {
			continue
		}
		rows[line.Row] = lineStyle(styleSet, line, snap.Clearing).Render(line.Text)
	}
	return rows
}

func lineStyle(styleSet styles.Styles, line sequencer.Line, clearing bool) lipgloss.Style {
	switch {
	case line.Pinned && (clearing || line.Dimmed):
		return styleSet.PinnedDimmed
	case line.Pinned:
		return styleSet.Pinned
	}
	switch line.Phase {
	case sequencer.PhaseIdle:
		return styleSet.MessageIdle
	case sequencer.PhaseFadeIn, sequencer.PhaseFadeOut:
		return styleSet.MessageFading
	default:
		return styleSet.Message
	}
}

// RenderOverlay draws a mounted overlay as a bordered box of width columns.
func RenderOverlay(styleSet styles.Styles, state overlay.State, width int) string {
	if !state.Mounted {
		return ""
	}
	box := styleSet.Overlay
	if state.Fading {
		box = styleSet.OverlayFading
	}
	inner := max(width-box.GetHorizontalFrameSize(), 10)

	rows := MessageRows(styleSet, state.Sequence)
	for i, row := range rows {
		rows[i] = lipgloss.NewStyle().Width(inner).Render(row)
	}
	rows = append(rows, "", lipgloss.PlaceHorizontal(inner, lipgloss.Right, styleSet.Skip.Render(SkipHint)))
	return box.Render(strings.Join(rows, "\n"))
}
