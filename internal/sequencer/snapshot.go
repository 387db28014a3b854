package sequencer

// Phase is the display phase of the current message.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseFadeIn  Phase = "fade-in"
	PhaseVisible Phase = "visible"
	PhaseFadeOut Phase = "fade-out"
)

// PinnedLine is a permanent message that stays on screen after it was
// shown. SourceIndex is its index in the active message list.
type PinnedLine struct {
	SourceIndex int
	Text        string
}

// Line is a positioned display line.
type Line struct {
	Text    string
	Row     int
	Offset  int
	Phase   Phase
	Pinned  bool
	Dimmed  bool
	Current bool
}

// Snapshot is a read-only projection of the sequencer state.
type Snapshot struct {
	Index     int
	Total     int
	Phase     Phase
	Pinned    []PinnedLine
	Clearing  bool
	Finishing bool

	// Current is the active message line, nil when there is none or when
	// the message is permanent and already pinned.
	Current *Line

	// DimPinned is set while a permanent message is current.
	DimPinned bool

	// MaxLines is the number of line slots. LineStep is the vertical
	// distance between slots and MinHeight the room reserved for all of
	// them, both in layout units.
	MaxLines  int
	LineStep  int
	MinHeight int
}

// Lines returns pinned lines followed by the current line.
func (s Snapshot) Lines() []Line {
	lines := make([]Line, 0, len(s.Pinned)+1)
	for row, pinned := range s.Pinned {
		lines = append(lines, Line{
			Text:   pinned.Text,
			Row:    row,
			Offset: row * s.LineStep,
			Phase:  PhaseVisible,
			Pinned: true,
			Dimmed: s.DimPinned && pinned.SourceIndex != s.Index,
		})
	}
	if s.Current != nil {
		lines = append(lines, *s.Current)
	}
	return lines
}
