package sequences

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadSequence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.yaml")

	yaml := `name: example
mode: GATE
routes:
  only: [" report.html "]
messages:
  - text: "  Hello {{.name}}  "
    always: true
  - text: Pinned
    permanent: true
  - text: Look here
    target: " nav "
  - text: Fresh start
    clear: true
`

	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write sequence: %v", err)
	}

	seq, err := LoadSequence(path)
	if err != nil {
		t.Fatalf("LoadSequence: %v", err)
	}

	if seq.Name != "example" {
		t.Fatalf("expected name example, got %q", seq.Name)
	}
	if seq.Source != path {
		t.Fatalf("expected source %q, got %q", path, seq.Source)
	}
	if seq.Label != "example" {
		t.Fatalf("expected label to default to name, got %q", seq.Label)
	}
	if seq.Cookie != "example_seen" {
		t.Fatalf("expected default cookie example_seen, got %q", seq.Cookie)
	}
	if seq.Mode != ModeGate {
		t.Fatalf("expected gate mode, got %q", seq.Mode)
	}
	if got := seq.Messages[0].Text; got != "Hello {{.name}}" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
	if got := seq.Messages[2].Target; got != "nav" {
		t.Fatalf("expected trimmed target, got %q", got)
	}
	if !seq.Messages[3].ClearPinned || !seq.Messages[1].Permanent || !seq.Messages[0].Always {
		t.Fatalf("flags not decoded: %+v", seq.Messages)
	}
	if diff := cmp.Diff([]string{"report.html"}, seq.Routes.Only); diff != "" {
		t.Fatalf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSequenceErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "messages:\n  - text: hi\n"},
		{"no messages", "name: x\n"},
		{"empty text", "name: x\nmessages:\n  - text: '  '\n"},
		{"bad mode", "name: x\nmode: sometimes\nmessages:\n  - text: hi\n"},
		{"duplicate variable", "name: x\nvariables:\n  - name: a\n  - name: a\nmessages:\n  - text: hi\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSequence([]byte(tt.yaml)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadBuiltinSequences(t *testing.T) {
	sequences, err := LoadBuiltinSequences()
	if err != nil {
		t.Fatalf("LoadBuiltinSequences: %v", err)
	}
	if len(sequences) != 2 {
		t.Fatalf("expected 2 builtin sequences, got %d", len(sequences))
	}

	intro, err := Find(sequences, "INTRO")
	if err != nil {
		t.Fatalf("Find intro: %v", err)
	}
	if intro.Source != "builtin" || intro.Cookie != "intro_seen" || intro.Mode != ModeNarrow {
		t.Fatalf("unexpected intro: %+v", intro)
	}
	if !intro.HasAlways() {
		t.Fatal("expected intro to carry an always message")
	}

	report, err := Find(sequences, "report")
	if err != nil {
		t.Fatalf("Find report: %v", err)
	}
	if report.Mode != ModeGate || !report.Incremental || report.Label != "LoadingReport" {
		t.Fatalf("unexpected report: %+v", report)
	}

	if _, err := Find(sequences, "nope"); !errors.Is(err, ErrSequenceNotFound) {
		t.Fatalf("expected ErrSequenceNotFound, got %v", err)
	}
}

func TestSearchPathPrecedence(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	override := "name: intro\nlabel: Custom\nmessages:\n  - text: custom\n"
	shadowed := "name: intro\nlabel: Shadowed\nmessages:\n  - text: shadowed\n"
	extra := "name: extra\nmessages:\n  - text: extra\n"

	for path, body := range map[string]string{
		filepath.Join(first, "intro.yaml"):  override,
		filepath.Join(second, "intro.yml"):  shadowed,
		filepath.Join(second, "extra.yaml"): extra,
		filepath.Join(second, "notes.txt"):  "ignored",
	} {
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	sequences, err := loadFromPaths([]string{first, second, filepath.Join(first, "missing")})
	if err != nil {
		t.Fatalf("loadFromPaths: %v", err)
	}

	intro, err := Find(sequences, "intro")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if intro.Label != "Custom" {
		t.Fatalf("expected first path to win, got label %q", intro.Label)
	}
	if _, err := Find(sequences, "extra"); err != nil {
		t.Fatalf("expected extra sequence: %v", err)
	}
	if _, err := Find(sequences, "report"); err != nil {
		t.Fatalf("expected builtin report fallback: %v", err)
	}
}

func TestRenderAppliesVariables(t *testing.T) {
	seq := &Sequence{
		Name: "intro",
		Variables: []SequenceVar{
			{Name: "name", Default: "there"},
		},
		Messages: []Message{
			{Text: `Welcome to Ahead, {{.name | default "friend"}}`, Always: true},
			{Text: "Plain text", Permanent: true},
		},
	}

	rendered, err := Render(seq, map[string]string{"name": "Andres"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rendered.Messages[0].Text; got != "Welcome to Ahead, Andres" {
		t.Fatalf("unexpected text %q", got)
	}
	if !rendered.Messages[0].Always || !rendered.Messages[1].Permanent {
		t.Fatal("render dropped message flags")
	}
	if seq.Messages[0].Text == rendered.Messages[0].Text {
		t.Fatal("render mutated the source sequence")
	}

	fallback, err := Render(seq, nil)
	if err != nil {
		t.Fatalf("Render without vars: %v", err)
	}
	if got := fallback.Messages[0].Text; got != "Welcome to Ahead, there" {
		t.Fatalf("expected variable default, got %q", got)
	}
}

func TestRenderRequired(t *testing.T) {
	seq := &Sequence{
		Name:      "required",
		Variables: []SequenceVar{{Name: "who", Required: true}},
		Messages:  []Message{{Text: "Hi {{.who}}"}},
	}

	if _, err := Render(seq, map[string]string{}); err == nil {
		t.Fatalf("expected error for missing required variable")
	}
}
