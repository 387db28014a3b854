// Package cli provides status formatting helpers.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aheadhealth/onboard/internal/models"
	"github.com/aheadhealth/onboard/internal/sequencer"
)

const (
	colorRed     = "1"
	colorGreen   = "2"
	colorYellow  = "3"
	colorCyan    = "6"
	colorMagenta = "5"
)

// colorize renders text in an ANSI color. lipgloss drops the color when
// stdout is not a terminal.
func colorize(text, color string) string {
	if IsJSONOutput() || IsJSONLOutput() {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

func formatPhase(phase sequencer.Phase) string {
	label, color := statusLabelForPhase(phase)
	return colorize(formatStatusLabel(label, string(phase)), color)
}

func formatEventType(eventType models.EventType) string {
	label, color := statusLabelForEvent(eventType)
	return colorize(formatStatusLabel(label, string(eventType)), color)
}

func statusLabelForPhase(phase sequencer.Phase) (string, string) {
	switch phase {
	case sequencer.PhaseFadeIn:
		return "IN", colorCyan
	case sequencer.PhaseVisible:
		return "ON", colorGreen
	case sequencer.PhaseFadeOut:
		return "OUT", colorMagenta
	default:
		return "IDLE", colorYellow
	}
}

func statusLabelForEvent(eventType models.EventType) (string, string) {
	switch eventType {
	case models.EventTypeRevealClicked:
		return "OK", colorGreen
	case models.EventTypeTargetMissing:
		return "ERR", colorRed
	case models.EventTypeOverlaySkipped:
		return "WARN", colorYellow
	default:
		return "WARN", colorYellow
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(normalized)
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}
