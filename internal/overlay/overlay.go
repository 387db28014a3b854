// Package overlay mounts message sequences over the page and tears them down.
package overlay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/logging"
	"github.com/aheadhealth/onboard/internal/sequencer"
	"github.com/aheadhealth/onboard/internal/sequences"
)

// Overlay errors.
var (
	ErrNotEligible     = errors.New("overlay not eligible")
	ErrAlreadyMounted  = errors.New("overlay already mounted")
	ErrMissingSequence = errors.New("overlay has no sequence")
)

// CompletionGate persists whether a sequence has been completed.
type CompletionGate interface {
	HasCompleted(name string) bool
	MarkCompleted(name string)
}

// Telemetry receives overlay telemetry. *events.Log satisfies it.
type Telemetry interface {
	sequencer.MissingTargetRecorder
	RecordSkip(ctx context.Context, skip events.Skip) events.Skip
}

// Config configures one overlay.
type Config struct {
	// Sequence is the rendered definition to show.
	Sequence *sequences.Sequence

	Timing   sequencer.Timing
	MaxLines int
	LineStep int

	// DisableMessages turns the overlay off everywhere.
	DisableMessages bool

	ClearPinnedOnMissingTarget bool
}

// Options wires an Overlay. Scheduler is required.
type Options struct {
	Scheduler  clock.Scheduler
	Locator    sequencer.TargetLocator
	Gate       CompletionGate
	Telemetry  Telemetry
	ScrollLock *ScrollLock

	// OnChange receives the overlay state after every change.
	OnChange func(State)
}

// State is what a renderer needs to draw the overlay.
type State struct {
	Name     string
	Label    string
	Mounted  bool
	Fading   bool
	Sequence sequencer.Snapshot
}

// Overlay owns the lifecycle of one mounted sequence: scroll lock,
// completion cookie, skip handling and the fade out before unmount.
type Overlay struct {
	cfg    Config
	opts   Options
	logger zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	seq     *sequencer.Sequencer
	release func()

	mounted bool
	fading  bool
	snap    sequencer.Snapshot
}

// New creates an unmounted overlay.
func New(cfg Config, opts Options) *Overlay {
	if opts.Scheduler == nil {
		panic("overlay: scheduler is required")
	}
	name := ""
	if cfg.Sequence != nil {
		name = cfg.Sequence.Name
	}
	return &Overlay{
		cfg:    cfg,
		opts:   opts,
		logger: logging.Component("overlay").With().Str("overlay", name).Logger(),
	}
}

// ShouldRun reports whether the overlay would mount on route.
func (o *Overlay) ShouldRun(route string) bool {
	seq := o.cfg.Sequence
	switch {
	case seq == nil:
		return false
	case o.cfg.DisableMessages:
		o.logger.Debug().Msg("messages disabled via config")
		return false
	case !seq.Routes.Allows(route):
		o.logger.Debug().Str("route", route).Msg("skipping overlay on this route")
		return false
	case seq.Mode == sequences.ModeGate && o.completed() && !seq.HasAlways():
		o.logger.Debug().Str("cookie", seq.Cookie).Msg("sequence already completed")
		return false
	}
	return true
}

// Mount starts the sequence on route. ctx bounds every timer of this mount.
func (o *Overlay) Mount(ctx context.Context, route string) error {
	if o.cfg.Sequence == nil {
		return ErrMissingSequence
	}
	if o.mounted {
		return ErrAlreadyMounted
	}
	if !o.ShouldRun(route) {
		return fmt.Errorf("%w: %s on %q", ErrNotEligible, o.cfg.Sequence.Name, route)
	}

	completed := o.completed()
	messages := sequences.Resolve(o.cfg.Sequence.Messages, completed)
	if completed {
		o.logger.Info().Int("messages", len(messages)).Msg("sequence seen before; showing always messages only")
	} else {
		o.logger.Info().Int("messages", len(messages)).Msg("showing full sequence")
	}

	o.ctx, o.cancel = context.WithCancel(ctx)
	o.mounted = true
	o.fading = false
	if o.opts.ScrollLock != nil {
		o.release = o.opts.ScrollLock.Acquire()
	}

	var telemetry sequencer.MissingTargetRecorder
	if o.opts.Telemetry != nil {
		telemetry = o.opts.Telemetry
	}
	o.seq = sequencer.New(sequencer.Config{
		Source:                     o.label(),
		Timing:                     o.cfg.Timing,
		MaxLines:                   o.cfg.MaxLines,
		LineStep:                   o.cfg.LineStep,
		Incremental:                o.cfg.Sequence.Incremental,
		ClearPinnedOnMissingTarget: o.cfg.ClearPinnedOnMissingTarget,
	}, messages, sequencer.Options{
		Scheduler: o.opts.Scheduler,
		Locator:   o.opts.Locator,
		Telemetry: telemetry,
		OnChange: func(snap sequencer.Snapshot) {
			o.snap = snap
			o.emit()
		},
		OnFinish: o.finish,
	})
	o.snap = o.seq.Snapshot()
	o.emit()
	o.seq.Start(o.ctx)
	return nil
}

// Skip ends the sequence early. It is a no-op unless the overlay is mounted
// and not already fading out.
func (o *Overlay) Skip() {
	if !o.mounted || o.fading {
		return
	}
	o.logger.Info().Msg("skip requested; fading out")
	o.seq.Cancel()
	if o.opts.Telemetry != nil {
		o.opts.Telemetry.RecordSkip(o.ctx, events.Skip{Source: o.label()})
	}
	o.markCompleted()
	o.beginFade()
}

// Close unmounts immediately without recording completion.
func (o *Overlay) Close() {
	o.unmount()
}

// State returns the current overlay state.
func (o *Overlay) State() State {
	state := State{
		Mounted:  o.mounted,
		Fading:   o.fading,
		Sequence: o.snap,
	}
	if o.cfg.Sequence != nil {
		state.Name = o.cfg.Sequence.Name
		state.Label = o.label()
	}
	return state
}

// Mounted reports whether the overlay is on screen.
func (o *Overlay) Mounted() bool {
	return o.mounted
}

// finish runs when the last message has faded out.
func (o *Overlay) finish() {
	if !o.mounted || o.fading {
		return
	}
	o.logger.Info().Msg("sequence finished")
	o.markCompleted()
	o.beginFade()
}

// beginFade starts the overlay fade and schedules the single unmount.
func (o *Overlay) beginFade() {
	o.fading = true
	o.emit()

	ctx := o.ctx
	o.opts.Scheduler.Schedule(ctx, o.cfg.Timing.FadeOut, func() {
		if ctx.Err() != nil || ctx != o.ctx {
			return
		}
		o.unmount()
	})
}

func (o *Overlay) unmount() {
	if !o.mounted {
		return
	}
	o.mounted = false
	o.fading = false
	if o.seq != nil {
		o.seq.Stop()
	}
	if o.release != nil {
		o.release()
		o.release = nil
	}
	if o.cancel != nil {
		o.cancel()
	}
	o.logger.Debug().Msg("overlay unmounted")
	o.emit()
}

func (o *Overlay) completed() bool {
	if o.opts.Gate == nil || o.cfg.Sequence == nil || o.cfg.Sequence.Cookie == "" {
		return false
	}
	return o.opts.Gate.HasCompleted(o.cfg.Sequence.Cookie)
}

func (o *Overlay) markCompleted() {
	if o.opts.Gate == nil || o.cfg.Sequence.Cookie == "" {
		return
	}
	o.opts.Gate.MarkCompleted(o.cfg.Sequence.Cookie)
}

func (o *Overlay) label() string {
	if o.cfg.Sequence.Label != "" {
		return o.cfg.Sequence.Label
	}
	return o.cfg.Sequence.Name
}

func (o *Overlay) emit() {
	if o.opts.OnChange != nil {
		o.opts.OnChange(o.State())
	}
}
