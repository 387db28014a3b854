// Package components renders the pieces of the onboard TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/aheadhealth/onboard/internal/tui/styles"
)

// EmptyState is a placeholder shown when there is nothing to display.
type EmptyState struct {
	Icon        string
	Title       string
	Subtitle    string
	Suggestions []Suggestion
}

// Suggestion is a command the user can run next.
type Suggestion struct {
	Command     string
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines := []string{styleSet.Muted.Render(titleLine)}
	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "", styleSet.Text.Render("Try:"))
		for _, s := range e.Suggestions {
			line := "  " + styleSet.Accent.Render(s.Command)
			if s.Description != "" {
				line += styleSet.Muted.Render("  # " + s.Description)
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// EmptyTelemetry is shown when no telemetry has been recorded.
func EmptyTelemetry() EmptyState {
	return EmptyState{
		Icon:     "📋",
		Title:    "No telemetry recorded yet",
		Subtitle: "Reveal clicks, missing targets and skips show up here.",
		Suggestions: []Suggestion{
			{Command: "onboard ui", Description: "open the report and use it"},
			{Command: "onboard play intro", Description: "run the intro without a UI"},
		},
	}
}

// EmptyPage is shown for a route without sections.
func EmptyPage(route string) EmptyState {
	return EmptyState{
		Title:    fmt.Sprintf("Nothing to show on %s", route),
		Subtitle: "Press tab to switch pages.",
	}
}

// EmptySequences is shown when no sequence definitions were found.
func EmptySequences() EmptyState {
	return EmptyState{
		Icon:  "🔍",
		Title: "No sequences found",
		Suggestions: []Suggestion{
			{Command: "ONBOARD_GLOBAL_SEQUENCES_DIR=<path> onboard sequences", Description: "search another directory"},
		},
	}
}
