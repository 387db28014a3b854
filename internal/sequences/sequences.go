// Package sequences provides loading and rendering of onboarding message sequences.
package sequences

import "strings"

// Sequence is a named, ordered run of overlay messages.
type Sequence struct {
	Name        string        `yaml:"name"`
	Label       string        `yaml:"label"`
	Description string        `yaml:"description"`
	Cookie      string        `yaml:"cookie"`
	Mode        Mode          `yaml:"mode"`
	Incremental bool          `yaml:"incremental,omitempty"`
	Routes      Routes        `yaml:"routes,omitempty"`
	Messages    []Message     `yaml:"messages"`
	Variables   []SequenceVar `yaml:"variables,omitempty"`
	Source      string        `yaml:"-"` // file path or "builtin"
}

// Message is a single overlay message. Messages are never mutated once
// loaded.
type Message struct {
	Text string `yaml:"text"`

	// Always keeps the message when the sequence was already completed.
	Always bool `yaml:"always,omitempty"`

	// Permanent pins the message as a persistent line once visible.
	Permanent bool `yaml:"permanent,omitempty"`

	// Target names the page region highlighted while the message shows.
	Target string `yaml:"target,omitempty"`

	// ClearPinned drops previously pinned lines before the message shows.
	ClearPinned bool `yaml:"clear,omitempty"`
}

// Routes restricts where a sequence may run. Entries match route suffixes.
type Routes struct {
	Only    []string `yaml:"only,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// SequenceVar describes a template variable used in message text.
type SequenceVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}

// Mode decides how prior completion affects a sequence.
type Mode string

const (
	// ModeNarrow always runs, narrowing to Always messages once completed.
	ModeNarrow Mode = "narrow"

	// ModeGate does not run once completed unless Always messages exist.
	ModeGate Mode = "gate"
)

// HasAlways reports whether any message is flagged Always.
func (s *Sequence) HasAlways() bool {
	if s == nil {
		return false
	}
	for _, msg := range s.Messages {
		if msg.Always {
			return true
		}
	}
	return false
}

// Resolve narrows messages to the ones shown for this mount. When the
// sequence was completed before only Always messages survive, in their
// input order. The result never aliases the input.
func Resolve(messages []Message, completedBefore bool) []Message {
	out := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if completedBefore && !msg.Always {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// Allows reports whether a sequence may run on route. An empty Only list
// allows every route that is not excluded.
func (r Routes) Allows(route string) bool {
	for _, suffix := range r.Exclude {
		if suffix != "" && strings.HasSuffix(route, suffix) {
			return false
		}
	}
	if len(r.Only) == 0 {
		return true
	}
	for _, suffix := range r.Only {
		if suffix != "" && strings.HasSuffix(route, suffix) {
			return true
		}
	}
	return false
}
