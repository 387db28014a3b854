package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aheadhealth/onboard/internal/logging"
)

// RevealClick is recorded when a hidden panel's reveal action is used.
type RevealClick struct {
	TargetID    string    `json:"targetId"`
	ButtonLabel string    `json:"buttonLabel"`
	ClickedAt   time.Time `json:"clickedAt"`
}

// MissingTarget is recorded when an overlay message references a page
// region that does not exist.
type MissingTarget struct {
	Source       string    `json:"source"`
	TargetID     string    `json:"targetId"`
	Message      string    `json:"message"`
	MessageIndex int       `json:"messageIndex"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Skip is recorded when the user skips an overlay.
type Skip struct {
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Dump is a copy of every recorded event, grouped by kind.
type Dump struct {
	Reveal  []RevealClick   `json:"reveal"`
	Missing []MissingTarget `json:"missing"`
	Skips   []Skip          `json:"skips"`
}

// Log is an append-only in-memory telemetry log. Each kind keeps insertion
// order. When a Repository is attached every record is mirrored to it;
// mirror failures are logged and otherwise ignored.
type Log struct {
	mu      sync.Mutex
	reveal  []RevealClick
	missing []MissingTarget
	skips   []Skip

	repo   Repository
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithRepository mirrors records to repo.
func WithRepository(repo Repository) Option {
	return func(l *Log) { l.repo = repo }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog creates an empty Log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.Component("telemetry"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RecordRevealClick appends a reveal click. A zero ClickedAt is stamped.
func (l *Log) RecordRevealClick(ctx context.Context, click RevealClick) RevealClick {
	if click.ClickedAt.IsZero() {
		click.ClickedAt = l.now()
	}

	l.mu.Lock()
	l.reveal = append(l.reveal, click)
	l.mu.Unlock()

	l.logger.Debug().Str("target_id", click.TargetID).Str("label", click.ButtonLabel).Msg("reveal click")
	if l.repo != nil {
		if err := LogRevealClicked(ctx, l.repo, click); err != nil {
			l.logger.Warn().Err(err).Msg("failed to persist reveal click")
		}
	}
	return click
}

// RecordMissingTarget appends a missing-target record.
func (l *Log) RecordMissingTarget(ctx context.Context, missing MissingTarget) MissingTarget {
	if missing.OccurredAt.IsZero() {
		missing.OccurredAt = l.now()
	}

	l.mu.Lock()
	l.missing = append(l.missing, missing)
	l.mu.Unlock()

	if l.repo != nil {
		if err := LogTargetMissing(ctx, l.repo, missing); err != nil {
			l.logger.Warn().Err(err).Msg("failed to persist missing target")
		}
	}
	return missing
}

// RecordSkip appends a skip record.
func (l *Log) RecordSkip(ctx context.Context, skip Skip) Skip {
	if skip.OccurredAt.IsZero() {
		skip.OccurredAt = l.now()
	}

	l.mu.Lock()
	l.skips = append(l.skips, skip)
	l.mu.Unlock()

	l.logger.Debug().Str("source", skip.Source).Msg("overlay skipped")
	if l.repo != nil {
		if err := LogOverlaySkipped(ctx, l.repo, skip); err != nil {
			l.logger.Warn().Err(err).Msg("failed to persist skip")
		}
	}
	return skip
}

// RevealClicks returns a copy of the recorded reveal clicks.
func (l *Log) RevealClicks() []RevealClick {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]RevealClick(nil), l.reveal...)
}

// MissingTargets returns a copy of the recorded missing targets.
func (l *Log) MissingTargets() []MissingTarget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]MissingTarget(nil), l.missing...)
}

// Skips returns a copy of the recorded skips.
func (l *Log) Skips() []Skip {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Skip(nil), l.skips...)
}

// ClearRevealClicks drops every in-memory reveal click.
func (l *Log) ClearRevealClicks() {
	l.mu.Lock()
	l.reveal = nil
	l.mu.Unlock()
}

// ClearMissingTargets drops every in-memory missing-target record.
func (l *Log) ClearMissingTargets() {
	l.mu.Lock()
	l.missing = nil
	l.mu.Unlock()
}

// ClearSkips drops every in-memory skip record.
func (l *Log) ClearSkips() {
	l.mu.Lock()
	l.skips = nil
	l.mu.Unlock()
}

// Dump returns every kind at once.
func (l *Log) Dump() Dump {
	return Dump{
		Reveal:  l.RevealClicks(),
		Missing: l.MissingTargets(),
		Skips:   l.Skips(),
	}
}
