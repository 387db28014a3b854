// Package cli provides tests for sequence CLI helpers.
package cli

import (
	"testing"

	"github.com/aheadhealth/onboard/internal/sequences"
)

func TestFilterSequences(t *testing.T) {
	items := []*sequences.Sequence{
		{Name: "intro", Routes: sequences.Routes{Exclude: []string{"report.html", "action_plan.html"}}},
		{Name: "report", Routes: sequences.Routes{Only: []string{"report.html"}}},
		{Name: "everywhere"},
	}

	tests := []struct {
		name     string
		route    string
		expected int
	}{
		{"no filter", "", 3},
		{"index", "/index.html", 2},
		{"report", "/report.html", 2},
		{"action plan", "/app/action_plan.html", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filterSequences(items, tt.route)
			if len(result) != tt.expected {
				t.Errorf("filterSequences() = %d items, want %d", len(result), tt.expected)
			}
		})
	}
}

func TestSequenceSourceLabel(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		userDir    string
		projectDir string
		want       string
	}{
		{"builtin", "builtin", "/home/user/.config/onboard/sequences", "/project/.onboard/sequences", "builtin"},
		{"user sequence", "/home/user/.config/onboard/sequences/foo.yaml", "/home/user/.config/onboard/sequences", "", "user"},
		{"project sequence", "/project/.onboard/sequences/bar.yaml", "", "/project/.onboard/sequences", "project"},
		{"other file", "/some/other/path.yaml", "/home/user/.config/onboard/sequences", "/project/.onboard/sequences", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sequenceSourceLabel(tt.source, tt.userDir, tt.projectDir)
			if result != tt.want {
				t.Errorf("sequenceSourceLabel() = %q, want %q", result, tt.want)
			}
		})
	}
}

func TestFormatRoutes(t *testing.T) {
	tests := []struct {
		routes sequences.Routes
		want   string
	}{
		{sequences.Routes{}, "all"},
		{sequences.Routes{Only: []string{"report.html"}}, "only report.html"},
		{sequences.Routes{Exclude: []string{"a.html", "b.html"}}, "not a.html,b.html"},
		{sequences.Routes{Only: []string{"a.html"}, Exclude: []string{"b.html"}}, "only a.html; not b.html"},
	}
	for _, tt := range tests {
		if got := formatRoutes(tt.routes); got != tt.want {
			t.Errorf("formatRoutes(%+v) = %q, want %q", tt.routes, got, tt.want)
		}
	}
}

func TestFormatMessageFlags(t *testing.T) {
	got := formatMessageFlags(sequences.Message{Always: true, ClearPinned: true})
	if got != "always,clear" {
		t.Fatalf("formatMessageFlags() = %q, want %q", got, "always,clear")
	}
	if got := formatMessageFlags(sequences.Message{}); got != "" {
		t.Fatalf("expected no flags, got %q", got)
	}
}

func TestCompletionCookies(t *testing.T) {
	items := []*sequences.Sequence{
		{Name: "a", Cookie: "intro_seen"},
		{Name: "b"},
		{Name: "c", Cookie: "intro_seen"},
		{Name: "d", Cookie: "report_intro_seen"},
	}
	got := completionCookies(items)
	if len(got) != 2 || got[0] != "intro_seen" || got[1] != "report_intro_seen" {
		t.Fatalf("completionCookies() = %v", got)
	}
}
