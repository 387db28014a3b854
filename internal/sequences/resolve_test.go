package sequences

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	full := []Message{
		{Text: "A", Always: true},
		{Text: "B", Permanent: true},
		{Text: "C", Target: "nav"},
		{Text: "D", Always: true, ClearPinned: true},
	}

	tests := []struct {
		name      string
		completed bool
		want      []string
	}{
		{"first visit keeps everything", false, []string{"A", "B", "C", "D"}},
		{"repeat visit keeps always only", true, []string{"A", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(full, tt.completed)
			texts := make([]string, 0, len(got))
			for _, msg := range got {
				texts = append(texts, msg.Text)
			}
			if diff := cmp.Diff(tt.want, texts); diff != "" {
				t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveDoesNotAlias(t *testing.T) {
	full := []Message{{Text: "A"}}
	got := Resolve(full, false)
	got[0].Text = "changed"
	if full[0].Text != "A" {
		t.Fatal("Resolve result aliases its input")
	}
}

func TestResolveEmpty(t *testing.T) {
	if got := Resolve(nil, true); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
	if got := Resolve([]Message{{Text: "B"}}, true); len(got) != 0 {
		t.Fatalf("expected no always messages, got %d", len(got))
	}
}
