package overlay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/sequencer"
	"github.com/aheadhealth/onboard/internal/sequences"
)

const ms = time.Millisecond

var testTiming = sequencer.Timing{
	StartDelay: 100 * ms,
	FadeIn:     10 * ms,
	Visible:    20 * ms,
	FadeOut:    30 * ms,
}

type fakeGate struct {
	completed map[string]bool
	marks     map[string]int
}

func newFakeGate() *fakeGate {
	return &fakeGate{completed: map[string]bool{}, marks: map[string]int{}}
}

func (g *fakeGate) HasCompleted(name string) bool { return g.completed[name] }

func (g *fakeGate) MarkCompleted(name string) {
	g.completed[name] = true
	g.marks[name]++
}

func introSequence() *sequences.Sequence {
	return &sequences.Sequence{
		Name:   "intro",
		Label:  "Loading",
		Cookie: "intro_seen",
		Mode:   sequences.ModeNarrow,
		Routes: sequences.Routes{Exclude: []string{"report.html", "action_plan.html"}},
		Messages: []sequences.Message{
			{Text: "Welcome", Always: true},
			{Text: "Gathering", Permanent: true},
			{Text: "Bye"},
		},
	}
}

func reportSequence() *sequences.Sequence {
	return &sequences.Sequence{
		Name:   "report",
		Label:  "LoadingReport",
		Cookie: "report_intro_seen",
		Mode:   sequences.ModeGate,
		Routes: sequences.Routes{Only: []string{"report.html"}},
		Messages: []sequences.Message{
			{Text: "Select reports here"},
		},
	}
}

type harness struct {
	clk       *clock.Manual
	gate      *fakeGate
	telemetry *events.Log
	lock      *ScrollLock
	states    []State
}

func newHarness() *harness {
	return &harness{
		clk:       clock.NewManual(),
		gate:      newFakeGate(),
		telemetry: events.NewLog(),
		lock:      NewScrollLock(nil),
	}
}

func (h *harness) overlay(seq *sequences.Sequence, mutate func(*Config)) *Overlay {
	cfg := Config{Sequence: seq, Timing: testTiming, MaxLines: 5, LineStep: 1}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, Options{
		Scheduler:  h.clk,
		Gate:       h.gate,
		Telemetry:  h.telemetry,
		ScrollLock: h.lock,
		OnChange:   func(s State) { h.states = append(h.states, s) },
	})
}

func TestShouldRun(t *testing.T) {
	tests := []struct {
		name      string
		seq       *sequences.Sequence
		route     string
		completed bool
		disabled  bool
		want      bool
	}{
		{"intro on index", introSequence(), "/index.html", false, false, true},
		{"intro excluded on report", introSequence(), "/report.html", false, false, false},
		{"intro excluded on action plan", introSequence(), "/action_plan.html", false, false, false},
		{"intro still runs once seen", introSequence(), "/index.html", true, false, true},
		{"messages disabled", introSequence(), "/index.html", false, true, false},
		{"report only on report", reportSequence(), "/index.html", false, false, false},
		{"report first visit", reportSequence(), "/report.html", false, false, true},
		{"report gated once seen", reportSequence(), "/report.html", true, false, false},
		{"nil sequence", nil, "/index.html", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			if tt.completed {
				h.gate.completed[tt.seq.Cookie] = true
			}
			o := h.overlay(tt.seq, func(c *Config) { c.DisableMessages = tt.disabled })
			if got := o.ShouldRun(tt.route); got != tt.want {
				t.Fatalf("ShouldRun(%q) = %v, want %v", tt.route, got, tt.want)
			}
		})
	}
}

func TestGateModeRunsAlwaysMessagesOnceSeen(t *testing.T) {
	h := newHarness()
	seq := reportSequence()
	seq.Messages = append(seq.Messages, sequences.Message{Text: "Still here", Always: true})
	h.gate.completed[seq.Cookie] = true

	o := h.overlay(seq, nil)
	require.NoError(t, o.Mount(context.Background(), "/report.html"))
	require.Equal(t, 1, o.State().Sequence.Total)
}

func TestMountErrors(t *testing.T) {
	h := newHarness()
	o := h.overlay(introSequence(), nil)

	err := o.Mount(context.Background(), "/report.html")
	require.True(t, errors.Is(err, ErrNotEligible), "got %v", err)
	require.False(t, h.lock.Locked())

	require.NoError(t, o.Mount(context.Background(), "/index.html"))
	require.ErrorIs(t, o.Mount(context.Background(), "/index.html"), ErrAlreadyMounted)
	require.Equal(t, 1, h.lock.Holders())

	empty := New(Config{}, Options{Scheduler: h.clk})
	require.ErrorIs(t, empty.Mount(context.Background(), "/"), ErrMissingSequence)
}

func TestFinishMarksCompletedAndUnmountsAfterFade(t *testing.T) {
	h := newHarness()
	o := h.overlay(introSequence(), nil)
	require.NoError(t, o.Mount(context.Background(), "/index.html"))
	require.True(t, h.lock.Locked())

	// Three messages of 60ms after a 100ms start delay.
	h.clk.Advance(280 * ms)
	state := o.State()
	require.True(t, state.Mounted)
	require.True(t, state.Fading)
	require.Equal(t, 1, h.gate.marks["intro_seen"])

	h.clk.Advance(29 * ms)
	require.True(t, o.Mounted())
	h.clk.Advance(1 * ms)
	require.False(t, o.Mounted())
	require.False(t, h.lock.Locked())
	require.Zero(t, h.clk.Pending())
	require.Empty(t, h.telemetry.Skips())

	// Next visit narrows to always messages.
	again := h.overlay(introSequence(), nil)
	require.NoError(t, again.Mount(context.Background(), "/index.html"))
	require.Equal(t, 1, again.State().Sequence.Total)
}

func TestSkipMidFadeIn(t *testing.T) {
	h := newHarness()
	o := h.overlay(introSequence(), nil)
	require.NoError(t, o.Mount(context.Background(), "/index.html"))

	h.clk.Advance(105 * ms)
	require.Equal(t, sequencer.PhaseFadeIn, o.State().Sequence.Phase)

	o.Skip()
	require.True(t, o.State().Fading)
	require.True(t, o.State().Sequence.Finishing)
	require.Equal(t, 1, h.gate.marks["intro_seen"])
	skips := h.telemetry.Skips()
	require.Len(t, skips, 1)
	require.Equal(t, "Loading", skips[0].Source)

	phase := o.State().Sequence.Phase
	h.clk.Advance(29 * ms)
	require.True(t, o.Mounted(), "still fading one tick before the fade ends")
	require.True(t, h.lock.Locked())
	h.clk.Advance(1 * ms)
	require.False(t, o.Mounted())
	require.Equal(t, phase, o.State().Sequence.Phase, "no message timer fires after skip")
	require.False(t, h.lock.Locked())
}

func TestSkipIsIdempotent(t *testing.T) {
	h := newHarness()
	o := h.overlay(introSequence(), nil)
	require.NoError(t, o.Mount(context.Background(), "/index.html"))

	o.Skip()
	o.Skip()
	h.clk.Advance(time.Second)
	o.Skip()

	require.Len(t, h.telemetry.Skips(), 1)
	require.Equal(t, 1, h.gate.marks["intro_seen"])
	require.Zero(t, h.lock.Holders())
}

func TestSkipAfterFinishIsIgnored(t *testing.T) {
	h := newHarness()
	o := h.overlay(introSequence(), nil)
	require.NoError(t, o.Mount(context.Background(), "/index.html"))

	h.clk.Advance(280 * ms)
	o.Skip()
	require.Empty(t, h.telemetry.Skips())
	require.Equal(t, 1, h.gate.marks["intro_seen"])
}

func TestCloseIsIdempotent(t *testing.T) {
	h := newHarness()
	o := h.overlay(introSequence(), nil)
	require.NoError(t, o.Mount(context.Background(), "/index.html"))

	o.Close()
	o.Close()
	require.False(t, o.Mounted())
	require.Zero(t, h.lock.Holders())
	require.Zero(t, h.gate.marks["intro_seen"], "close does not record completion")

	h.clk.Advance(time.Second)
	require.False(t, o.Mounted())
}

func TestOverlaysShareScrollLock(t *testing.T) {
	var transitions []bool
	h := newHarness()
	h.lock = NewScrollLock(func(locked bool) { transitions = append(transitions, locked) })

	intro := h.overlay(introSequence(), func(c *Config) { c.Sequence.Routes = sequences.Routes{} })
	report := h.overlay(reportSequence(), nil)
	require.NoError(t, intro.Mount(context.Background(), "/report.html"))
	require.NoError(t, report.Mount(context.Background(), "/report.html"))
	require.Equal(t, 2, h.lock.Holders())

	report.Skip()
	h.clk.Advance(30 * ms)
	require.False(t, report.Mounted())
	require.True(t, h.lock.Locked(), "intro still holds the lock")

	intro.Close()
	require.False(t, h.lock.Locked())
	require.Equal(t, []bool{true, false}, transitions)
}

func TestEmptySequenceFadesImmediately(t *testing.T) {
	h := newHarness()
	seq := introSequence()
	for i := range seq.Messages {
		seq.Messages[i].Always = false
	}
	h.gate.completed[seq.Cookie] = true

	o := h.overlay(seq, nil)
	require.NoError(t, o.Mount(context.Background(), "/index.html"))
	require.True(t, o.State().Fading)
	require.Nil(t, o.State().Sequence.Current)

	h.clk.Advance(30 * ms)
	require.False(t, o.Mounted())
}

func TestScrollLockReleaseOnce(t *testing.T) {
	lock := NewScrollLock(nil)
	first := lock.Acquire()
	second := lock.Acquire()

	first()
	first()
	require.True(t, lock.Locked())
	second()
	require.False(t, lock.Locked())
	second()
	require.Zero(t, lock.Holders())
}
