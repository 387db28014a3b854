package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/overlay"
	"github.com/aheadhealth/onboard/internal/page"
	"github.com/aheadhealth/onboard/internal/reveal"
	"github.com/aheadhealth/onboard/internal/sequencer"
	"github.com/aheadhealth/onboard/internal/sequences"
)

var testTiming = sequencer.Timing{
	StartDelay: 100 * time.Millisecond,
	FadeIn:     10 * time.Millisecond,
	Visible:    20 * time.Millisecond,
	FadeOut:    30 * time.Millisecond,
}

type memGate struct {
	completed map[string]bool
	revealed  map[string]bool
}

func newMemGate() *memGate {
	return &memGate{completed: map[string]bool{}, revealed: map[string]bool{}}
}

func (g *memGate) HasCompleted(name string) bool { return g.completed[name] }
func (g *memGate) MarkCompleted(name string)     { g.completed[name] = true }
func (g *memGate) IsRevealed(id string) bool     { return g.revealed[id] }
func (g *memGate) MarkRevealed(id string)        { g.revealed[id] = true }

type testApp struct {
	m         *model
	clk       *clock.Manual
	gate      *memGate
	telemetry *events.Log
}

func newTestApp(t *testing.T, route string) *testApp {
	t.Helper()

	clk := clock.NewManual()
	gate := newMemGate()
	telemetry := events.NewLog()
	m, err := newModel(Config{
		Site:  page.DefaultSite("Ana"),
		Route: route,
		Overlays: []overlay.Config{
			{
				Sequence: &sequences.Sequence{
					Name:   "intro",
					Label:  "Loading",
					Cookie: "intro_seen",
					Mode:   sequences.ModeNarrow,
					Routes: sequences.Routes{Exclude: []string{"report.html"}},
					Messages: []sequences.Message{
						{Text: "Welcome", Always: true},
						{Text: "Use the menu", Target: page.RegionTopMenu},
					},
				},
				Timing: testTiming,
			},
			{
				Sequence: &sequences.Sequence{
					Name:   "report",
					Label:  "LoadingReport",
					Cookie: "report_intro_seen",
					Mode:   sequences.ModeGate,
					Routes: sequences.Routes{Only: []string{"report.html"}},
					Messages: []sequences.Message{
						{Text: "Select reports here", Target: page.RegionReportSelector},
					},
				},
				Timing: testTiming,
			},
		},
		Gate:          gate,
		Telemetry:     telemetry,
		RevealStore:   gate,
		RevealTargets: reveal.DefaultTargets(),
		Scheduler:     clk,
	})
	require.NoError(t, err)
	t.Cleanup(m.shutdown)

	app := &testApp{m: m, clk: clk, gate: gate, telemetry: telemetry}
	app.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.run(m.Init())
	return app
}

func (a *testApp) send(msg tea.Msg) tea.Cmd {
	_, cmd := a.m.Update(msg)
	return cmd
}

// run executes a command and feeds its message back, like the program loop.
func (a *testApp) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		a.run(a.send(msg))
	}
}

func (a *testApp) key(k string) {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	a.run(a.send(msg))
}

func TestNewModelValidates(t *testing.T) {
	_, err := newModel(Config{Scheduler: clock.NewManual()})
	require.Error(t, err)

	_, err = newModel(Config{Site: page.DefaultSite("")})
	require.Error(t, err)

	_, err = newModel(Config{Site: page.DefaultSite(""), Scheduler: clock.NewManual(), Route: "/missing.html"})
	require.ErrorIs(t, err, page.ErrUnknownRoute)
}

func TestIntroRunsAndUnmounts(t *testing.T) {
	app := newTestApp(t, page.RouteIndex)
	require.Len(t, app.m.overlays, 1)
	require.True(t, app.m.lock.Locked())

	app.clk.Advance(115 * time.Millisecond)
	view := app.m.View()
	require.Contains(t, view, "Welcome")
	require.Contains(t, view, "scroll locked")

	app.clk.Run(time.Second)
	require.False(t, app.m.overlays[0].Mounted())
	require.False(t, app.m.lock.Locked())
	require.True(t, app.gate.completed["intro_seen"])

	top, ok := app.m.page.Region(page.RegionTopMenu)
	require.True(t, ok)
	require.False(t, top.Highlighted(), "highlight released on unmount")
	require.NotContains(t, app.m.View(), "scroll locked")
}

func TestSkipRecordsAndFades(t *testing.T) {
	app := newTestApp(t, page.RouteIndex)
	app.clk.Advance(105 * time.Millisecond)

	app.key("s")
	state := app.m.overlays[0].State()
	require.True(t, state.Fading)
	require.Len(t, app.telemetry.Skips(), 1)
	require.Equal(t, "Loading", app.telemetry.Skips()[0].Source)

	app.key("s")
	require.Len(t, app.telemetry.Skips(), 1, "skip while fading is ignored")

	app.clk.Advance(30 * time.Millisecond)
	require.False(t, app.m.overlays[0].Mounted())
	require.True(t, app.gate.completed["intro_seen"])
}

func TestScrollBlockedWhileLocked(t *testing.T) {
	app := newTestApp(t, page.RouteReport)
	require.True(t, app.m.lock.Locked())
	app.send(tea.WindowSizeMsg{Width: 100, Height: 20})

	app.key("down")
	require.Equal(t, 0, app.m.viewport.YOffset)

	app.clk.Run(time.Second)
	require.False(t, app.m.lock.Locked())
	app.key("down")
	require.Equal(t, 1, app.m.viewport.YOffset)
}

func TestTabNavigatesAndClosesOverlays(t *testing.T) {
	app := newTestApp(t, page.RouteIndex)
	intro := app.m.overlays[0]

	app.key("tab")
	require.Equal(t, page.RouteReport, app.m.page.Route)
	require.False(t, intro.Mounted(), "leaving the page closes its overlays")
	require.False(t, app.gate.completed["intro_seen"], "closing is not completing")
	require.Len(t, app.m.overlays, 1)
	require.Equal(t, "report", app.m.overlays[0].State().Name)

	app.clk.Run(time.Second)
	require.True(t, app.gate.completed["report_intro_seen"])

	app.key("tab")
	require.Equal(t, page.RouteActionPlan, app.m.page.Route)
	app.key("tab")
	require.Equal(t, page.RouteIndex, app.m.page.Route)
	require.Len(t, app.m.overlays, 1, "narrow intro runs again")
}

func TestReportGateSkipsWhenCompleted(t *testing.T) {
	app := newTestApp(t, page.RouteIndex)
	app.gate.completed["report_intro_seen"] = true

	app.key("tab")
	require.Equal(t, page.RouteReport, app.m.page.Route)
	require.Empty(t, app.m.overlays)
	require.False(t, app.m.lock.Locked())
}

func TestRevealFocusAndClick(t *testing.T) {
	app := newTestApp(t, page.RouteReport)
	app.clk.Run(time.Second)

	require.Equal(t, "heart-results", app.m.selected)
	app.key("right")
	require.Equal(t, "blood-results", app.m.selected)

	app.key("enter")
	panel, ok := app.m.page.Panel("blood-results")
	require.True(t, ok)
	require.False(t, panel.Hidden)
	require.True(t, app.gate.revealed["blood-results"])
	require.Len(t, app.telemetry.RevealClicks(), 1)
	require.NotEqual(t, "blood-results", app.m.selected)
}

func TestSmallTerminal(t *testing.T) {
	app := newTestApp(t, page.RouteIndex)
	app.send(tea.WindowSizeMsg{Width: 40, Height: 10})
	view := app.m.View()
	require.Contains(t, view, "Terminal too small (40x10)")
	require.True(t, strings.HasSuffix(view, "\n"))
}
