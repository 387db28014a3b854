// Package reveal hides sensitive result panels until the user asks to see
// them, and remembers the choice.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/logging"
	"github.com/aheadhealth/onboard/internal/page"
)

const (
	DefaultStatusVisible = 1200 * time.Millisecond
	DefaultStatusFade    = 600 * time.Millisecond
)

var (
	ErrUnknownPanel = errors.New("unknown panel")
	ErrNotHidden    = errors.New("panel is not hidden")
)

// Store persists revealed panel ids. *cookies.Gate satisfies it.
type Store interface {
	IsRevealed(id string) bool
	MarkRevealed(id string)
}

// ClickRecorder receives reveal telemetry. *events.Log satisfies it.
type ClickRecorder interface {
	RecordRevealClick(ctx context.Context, click events.RevealClick) events.RevealClick
}

// Target is a panel guarded by a reveal action.
type Target struct {
	PanelID     string
	ButtonLabel string
}

// DefaultTargets guards the result panels of the demo report.
func DefaultTargets() []Target {
	return []Target{
		{PanelID: "heart-results", ButtonLabel: "Reveal lipid blood panel"},
		{PanelID: "blood-results", ButtonLabel: "Reveal sugar control and iron status"},
		{PanelID: "kidney-results", ButtonLabel: "Reveal filtration function"},
		{PanelID: "imaging-results", ButtonLabel: "Reveal abdominal ultrasound"},
	}
}

// Config configures a Gate.
type Config struct {
	// ShowStatusMessage shows a summary of out-of-range values before the
	// panel is revealed.
	ShowStatusMessage bool

	// ProfileName personalizes the all-in-range message.
	ProfileName string

	// StatusVisible and StatusFade time the status message.
	// Defaults: 1.2s and 600ms.
	StatusVisible time.Duration
	StatusFade    time.Duration
}

// Options wires a Gate. Scheduler is required when status messages are on.
type Options struct {
	Scheduler clock.Scheduler
	Store     Store
	Telemetry ClickRecorder

	// OnChange fires whenever a panel changes visibility or notice.
	OnChange func()
}

// Gate manages reveal actions on one page.
type Gate struct {
	cfg    Config
	opts   Options
	logger zerolog.Logger

	pending map[string]bool
}

// New creates a Gate.
func New(cfg Config, opts Options) *Gate {
	if cfg.StatusVisible <= 0 {
		cfg.StatusVisible = DefaultStatusVisible
	}
	if cfg.StatusFade <= 0 {
		cfg.StatusFade = DefaultStatusFade
	}
	return &Gate{
		cfg:     cfg,
		opts:    opts,
		logger:  logging.Component("reveal"),
		pending: make(map[string]bool),
	}
}

// Attach hides every target panel on p that was not revealed before and
// returns the ids it hid. Missing panels are logged and skipped.
func (g *Gate) Attach(p *page.Page, targets []Target) []string {
	var hidden []string
	for _, target := range targets {
		if target.PanelID == "" {
			g.logger.Error().Msg("reveal target without panel id")
			continue
		}
		panel, ok := p.Panel(target.PanelID)
		if !ok {
			g.logger.Error().Str("panel", target.PanelID).Str("route", p.Route).Msg("reveal target not found")
			continue
		}
		if g.opts.Store != nil && g.opts.Store.IsRevealed(target.PanelID) {
			panel.Hidden = false
			continue
		}
		panel.Hidden = true
		panel.ButtonLabel = target.ButtonLabel
		hidden = append(hidden, target.PanelID)
	}
	return hidden
}

// Click handles the reveal action of a hidden panel.
func (g *Gate) Click(ctx context.Context, p *page.Page, panelID string) error {
	panel, ok := p.Panel(panelID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPanel, panelID)
	}
	if !panel.Hidden || g.pending[panelID] {
		return fmt.Errorf("%w: %s", ErrNotHidden, panelID)
	}

	label := panel.ButtonLabel
	if label == "" {
		label = page.RevealLabel
	}
	if g.opts.Telemetry != nil {
		g.opts.Telemetry.RecordRevealClick(ctx, events.RevealClick{
			TargetID:    panelID,
			ButtonLabel: label,
		})
	}

	if !g.cfg.ShowStatusMessage || g.opts.Scheduler == nil {
		g.reveal(panel)
		return nil
	}

	g.pending[panelID] = true
	panel.Notice = StatusMessage(panel.OutOfRangeCount(), g.cfg.ProfileName)
	g.changed()

	g.opts.Scheduler.Schedule(ctx, g.cfg.StatusVisible, func() {
		panel.NoticeFading = true
		g.changed()
		g.opts.Scheduler.Schedule(ctx, g.cfg.StatusFade, func() {
			delete(g.pending, panelID)
			panel.Notice = ""
			panel.NoticeFading = false
			g.reveal(panel)
		})
	})
	return nil
}

// Pending reports whether panelID is showing its status message.
func (g *Gate) Pending(panelID string) bool {
	return g.pending[panelID]
}

func (g *Gate) reveal(panel *page.Panel) {
	panel.Hidden = false
	if g.opts.Store != nil {
		g.opts.Store.MarkRevealed(panel.ID)
	}
	g.logger.Debug().Str("panel", panel.ID).Msg("panel revealed")
	g.changed()
}

func (g *Gate) changed() {
	if g.opts.OnChange != nil {
		g.opts.OnChange()
	}
}

// StatusMessage summarizes a panel before it is revealed.
func StatusMessage(outOfRange int, name string) string {
	if outOfRange == 0 {
		if name == "" {
			return "All your values are in range"
		}
		return "All your values are in range " + name
	}
	return fmt.Sprintf("You have %d values out of range, please take a closer look at them.", outOfRange)
}
