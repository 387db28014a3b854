// Package sequencer drives onboarding messages through timed display phases.
//
// A Sequencer shows one message at a time. Each message moves through
// idle, fade-in, visible and fade-out before the next one becomes current.
// Permanent messages leave a pinned line behind, and a message may
// highlight a page region while it is current. All state is owned by one
// goroutine; timers are delivered through a clock.Scheduler.
package sequencer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/logging"
	"github.com/aheadhealth/onboard/internal/sequences"
)

// DefaultMaxLines is the number of line slots an overlay shows.
const DefaultMaxLines = 5

// Timing holds the phase durations for one overlay.
type Timing struct {
	// StartDelay applies before the first message only.
	StartDelay time.Duration
	FadeIn     time.Duration
	Visible    time.Duration
	FadeOut    time.Duration

	// ClearHold is inserted before a ClearPinned message so pinned lines
	// can fade out first.
	ClearHold time.Duration
}

// MessageDuration is the time one message occupies, excluding start delay
// and clear hold.
func (t Timing) MessageDuration() time.Duration {
	return t.FadeIn + t.Visible + t.FadeOut
}

// Config configures a Sequencer.
type Config struct {
	// Source names the overlay in logs and telemetry.
	Source string

	Timing Timing

	// MaxLines is the number of display lines; pinned capacity is one less.
	// Default: DefaultMaxLines.
	MaxLines int

	// LineStep is the distance between line slots in layout units.
	LineStep int

	// Incremental keeps every highlighted target highlighted until Stop
	// instead of releasing it when its message ends.
	Incremental bool

	// ClearPinnedOnMissingTarget clears pinned lines when a ClearPinned
	// message is skipped because its target is missing.
	ClearPinnedOnMissingTarget bool
}

// Target is a page region that can be emphasized.
type Target interface {
	Highlight()
	Unhighlight()
}

// TargetLocator resolves region ids to live targets.
type TargetLocator interface {
	Find(id string) (Target, bool)
}

// MissingTargetRecorder receives missing-target telemetry.
type MissingTargetRecorder interface {
	RecordMissingTarget(ctx context.Context, missing events.MissingTarget) events.MissingTarget
}

// Options wires a Sequencer to its collaborators. Scheduler is required.
type Options struct {
	Scheduler clock.Scheduler
	Locator   TargetLocator
	Telemetry MissingTargetRecorder

	// OnChange receives a snapshot after every state change.
	OnChange func(Snapshot)

	// OnFinish fires once, after the last message's fade-out completes.
	OnFinish func()
}

// Sequencer drives a single mounted message sequence.
type Sequencer struct {
	cfg      Config
	opts     Options
	messages []sequences.Message
	logger   zerolog.Logger

	parent context.Context
	token  context.Context
	cancel context.CancelFunc

	index     int
	phase     Phase
	pinned    []PinnedLine
	clearing  bool
	finishing bool
	started   bool
	stopped   bool

	current  Target
	retained []Target
}

// New creates a Sequencer over messages. The slice is copied.
func New(cfg Config, messages []sequences.Message, opts Options) *Sequencer {
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = DefaultMaxLines
	}
	if opts.Scheduler == nil {
		panic("sequencer: scheduler is required")
	}

	return &Sequencer{
		cfg:      cfg,
		opts:     opts,
		messages: append([]sequences.Message(nil), messages...),
		logger:   logging.Component("sequencer").With().Str("source", cfg.Source).Logger(),
		phase:    PhaseIdle,
	}
}

// Start shows the first message. An empty sequence finishes immediately.
// ctx bounds every timer the sequencer schedules.
func (s *Sequencer) Start(ctx context.Context) {
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.parent = ctx

	if len(s.messages) == 0 {
		s.logger.Debug().Msg("no messages to show")
		s.finish()
		return
	}
	s.activate(0)
}

// Stop cancels pending timers and releases every highlight. It is
// idempotent and the sequencer cannot be restarted.
func (s *Sequencer) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.revoke()
	s.releaseCurrent(false)
	for _, target := range s.retained {
		target.Unhighlight()
	}
	s.retained = nil
}

// Cancel ends the sequence early: pending timers are revoked and the
// sequence is marked finishing. Highlights stay until Stop. OnFinish is not
// called.
func (s *Sequencer) Cancel() {
	if s.stopped {
		return
	}
	s.revoke()
	if s.finishing {
		return
	}
	s.finishing = true
	s.emit()
}

// Replace swaps the active message list. Timers for the current message
// are cancelled, the index is clamped to the new bounds and the message at
// that index is activated again.
func (s *Sequencer) Replace(messages []sequences.Message) {
	s.messages = append([]sequences.Message(nil), messages...)
	if !s.started || s.stopped || s.finishing {
		s.index = s.safeIndex()
		return
	}
	s.revoke()
	if len(s.messages) == 0 {
		s.releaseCurrent(s.cfg.Incremental)
		s.finish()
		return
	}
	s.activate(s.safeIndex())
}

// Snapshot projects the current state.
func (s *Sequencer) Snapshot() Snapshot {
	idx := s.safeIndex()
	snap := Snapshot{
		Index:     idx,
		Total:     len(s.messages),
		Phase:     s.phase,
		Pinned:    append([]PinnedLine(nil), s.pinned...),
		Clearing:  s.clearing,
		Finishing: s.finishing,
		MaxLines:  s.cfg.MaxLines,
		LineStep:  s.cfg.LineStep,
		MinHeight: s.cfg.MaxLines * s.cfg.LineStep,
	}
	if len(s.messages) == 0 {
		return snap
	}

	msg := s.messages[idx]
	snap.DimPinned = msg.Permanent
	if msg.Permanent && s.isPinned(idx) {
		return snap
	}
	row := min(len(s.pinned), s.cfg.MaxLines-1)
	snap.Current = &Line{
		Text:    msg.Text,
		Row:     row,
		Offset:  row * s.cfg.LineStep,
		Phase:   s.phase,
		Current: true,
	}
	return snap
}

// Capacity is the maximum number of pinned lines.
func (s *Sequencer) Capacity() int {
	return s.cfg.MaxLines - 1
}

func (s *Sequencer) activate(i int) {
	s.revoke()
	s.releaseCurrent(s.cfg.Incremental)

	s.index = i
	s.index = s.safeIndex()
	s.phase = PhaseIdle

	token, cancel := context.WithCancel(s.parent)
	s.token, s.cancel = token, cancel

	msg := s.messages[s.index]
	s.logger.Debug().Int("index", s.index).Int("total", len(s.messages)).Str("text", msg.Text).Msg("showing message")
	s.emit()

	if msg.Target != "" {
		target, ok := s.locate(msg.Target)
		if !ok {
			s.shortCircuit(msg)
			return
		}
		s.logger.Debug().Str("target", msg.Target).Msg("peeking target")
		target.Highlight()
		s.current = target
	}

	t := time.Duration(0)
	if s.index == 0 {
		t = s.cfg.Timing.StartDelay
	}
	if msg.ClearPinned {
		s.after(token, t, s.beginClear)
		t += s.cfg.Timing.ClearHold
		s.after(token, t, s.endClear)
	}

	s.after(token, t, func() { s.setPhase(PhaseFadeIn) })
	t += s.cfg.Timing.FadeIn
	s.after(token, t, s.enterVisible)
	t += s.cfg.Timing.Visible
	s.after(token, t, func() { s.setPhase(PhaseFadeOut) })
	t += s.cfg.Timing.FadeOut
	s.after(token, t, s.advance)
}

// shortCircuit skips a message whose target is missing without ever
// showing it.
func (s *Sequencer) shortCircuit(msg sequences.Message) {
	s.revoke()

	s.logger.Error().
		Str("target", msg.Target).
		Int("index", s.index).
		Msg("target not found; skipping message")

	if s.opts.Telemetry != nil {
		s.opts.Telemetry.RecordMissingTarget(s.parent, events.MissingTarget{
			Source:       s.cfg.Source,
			TargetID:     msg.Target,
			Message:      msg.Text,
			MessageIndex: s.index,
		})
	}

	if msg.ClearPinned && s.cfg.ClearPinnedOnMissingTarget && len(s.pinned) > 0 {
		s.pinned = nil
		s.emit()
	}

	s.advance()
}

func (s *Sequencer) advance() {
	if s.index >= len(s.messages)-1 {
		s.logger.Debug().Msg("last message reached")
		s.finish()
		return
	}
	s.activate(s.index + 1)
}

func (s *Sequencer) finish() {
	if s.finishing {
		return
	}
	s.finishing = true
	s.revoke()
	s.emit()
	if s.opts.OnFinish != nil {
		s.opts.OnFinish()
	}
}

func (s *Sequencer) setPhase(phase Phase) {
	s.logger.Debug().Str("phase", string(phase)).Int("index", s.index).Msg("phase")
	s.phase = phase
	s.emit()
}

func (s *Sequencer) enterVisible() {
	msg := s.messages[s.index]
	if msg.Permanent && !s.isPinned(s.index) && len(s.pinned) < s.Capacity() {
		s.pinned = append(s.pinned, PinnedLine{SourceIndex: s.index, Text: msg.Text})
	}
	s.setPhase(PhaseVisible)
}

func (s *Sequencer) beginClear() {
	s.clearing = true
	s.emit()
}

func (s *Sequencer) endClear() {
	s.pinned = nil
	s.clearing = false
	s.emit()
}

// after schedules fn on the activation token. The token check is repeated
// inside the callback so a stale timer can never touch newer state.
func (s *Sequencer) after(token context.Context, delay time.Duration, fn func()) {
	s.opts.Scheduler.Schedule(token, delay, func() {
		if token.Err() != nil || token != s.token {
			return
		}
		fn()
	})
}

// revoke invalidates the current activation token.
func (s *Sequencer) revoke() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token = nil
	s.clearing = false
}

func (s *Sequencer) releaseCurrent(retain bool) {
	if s.current == nil {
		return
	}
	if retain {
		s.retained = append(s.retained, s.current)
	} else {
		s.current.Unhighlight()
	}
	s.current = nil
}

func (s *Sequencer) locate(id string) (Target, bool) {
	if s.opts.Locator == nil {
		return nil, false
	}
	target, ok := s.opts.Locator.Find(id)
	if !ok || target == nil {
		return nil, false
	}
	return target, true
}

func (s *Sequencer) isPinned(index int) bool {
	for _, line := range s.pinned {
		if line.SourceIndex == index {
			return true
		}
	}
	return false
}

func (s *Sequencer) safeIndex() int {
	return min(s.index, max(len(s.messages)-1, 0))
}

func (s *Sequencer) emit() {
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.Snapshot())
	}
}
