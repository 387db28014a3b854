// Package tui implements the onboard terminal user interface: the report
// page with its onboarding overlays and reveal actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/logging"
	"github.com/aheadhealth/onboard/internal/overlay"
	"github.com/aheadhealth/onboard/internal/page"
	"github.com/aheadhealth/onboard/internal/reveal"
	"github.com/aheadhealth/onboard/internal/tui/components"
	"github.com/aheadhealth/onboard/internal/tui/styles"
)

// Config wires the TUI.
type Config struct {
	Site  *page.Site
	Route string
	Theme string

	// Overlays are mounted in order on every page they are eligible for.
	// Later overlays draw on top.
	Overlays []overlay.Config

	Gate      overlay.CompletionGate
	Telemetry Telemetry

	Reveal        reveal.Config
	RevealStore   reveal.Store
	RevealTargets []reveal.Target

	// Scheduler overrides the wall-clock dispatcher. Tests pass a
	// clock.Manual.
	Scheduler clock.Scheduler
}

// Telemetry receives overlay and reveal telemetry. *events.Log satisfies it.
type Telemetry interface {
	overlay.Telemetry
	reveal.ClickRecorder
}

// Run launches the TUI program.
func Run(cfg Config) error {
	sender := &programSender{}
	if cfg.Scheduler == nil {
		cfg.Scheduler = clock.NewDispatcher(sender.post)
	}

	m, err := newModel(cfg)
	if err != nil {
		return err
	}
	defer m.shutdown()

	program := tea.NewProgram(m, tea.WithAltScreen())
	sender.attach(program)
	_, err = program.Run()
	return err
}

const (
	minWidth   = 60
	minHeight  = 18
	footerRows = 2
)

type model struct {
	cfg    Config
	styles styles.Styles
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// pageCancel revokes every timer started for the current page.
	pageCancel context.CancelFunc

	page     *page.Page
	overlays []*overlay.Overlay
	lock     *overlay.ScrollLock
	reveal   *reveal.Gate
	selected string

	viewport viewport.Model
	width    int
	height   int
	status   string
}

func newModel(cfg Config) (*model, error) {
	if cfg.Site == nil {
		return nil, errors.New("tui: site is required")
	}
	if cfg.Scheduler == nil {
		return nil, errors.New("tui: scheduler is required")
	}
	if cfg.Route == "" {
		cfg.Route = page.RouteIndex
	}
	if _, err := cfg.Site.Page(cfg.Route); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &model{
		cfg:      cfg,
		styles:   styles.BuildStyles(styles.ThemeByName(cfg.Theme)),
		logger:   logging.Component("tui"),
		ctx:      ctx,
		cancel:   cancel,
		lock:     overlay.NewScrollLock(nil),
		viewport: viewport.New(minWidth, minHeight),
	}
	m.reveal = reveal.New(cfg.Reveal, reveal.Options{
		Scheduler: cfg.Scheduler,
		Store:     cfg.RevealStore,
		Telemetry: cfg.Telemetry,
	})
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return navigateCmd(m.cfg.Route)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg.fn()
	case navigateMsg:
		m.navigate(msg.route)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
		if !m.lock.Locked() {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.refresh()
			return m, cmd
		}
	case tea.MouseMsg:
		if !m.lock.Locked() {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.refresh()
			return m, cmd
		}
	}
	m.refresh()
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.shutdown()
		return tea.Quit, true
	case "s", "esc":
		m.skipTop()
		return nil, true
	case "tab":
		return navigateCmd(m.nextRoute(1)), true
	case "shift+tab":
		return navigateCmd(m.nextRoute(-1)), true
	case "left", "h":
		m.moveSelection(-1)
		m.scrollToSelected()
		return nil, true
	case "right", "l":
		m.moveSelection(1)
		m.scrollToSelected()
		return nil, true
	case "enter", " ":
		m.clickSelected()
		return nil, true
	}
	return nil, false
}

// navigate tears down the current page and mounts the overlays of route.
func (m *model) navigate(route string) {
	p, err := m.cfg.Site.Page(route)
	if err != nil {
		m.status = err.Error()
		m.logger.Warn().Err(err).Msg("navigation failed")
		return
	}

	for _, o := range m.overlays {
		o.Close()
	}
	m.overlays = nil
	if m.pageCancel != nil {
		m.pageCancel()
	}
	pageCtx, cancel := context.WithCancel(m.ctx)
	m.pageCancel = cancel

	m.page = p
	m.status = ""
	m.viewport.GotoTop()
	m.reveal.Attach(p, m.cfg.RevealTargets)
	m.selected = ""
	m.moveSelection(1)

	for _, oc := range m.cfg.Overlays {
		o := overlay.New(oc, overlay.Options{
			Scheduler:  m.cfg.Scheduler,
			Locator:    p,
			Gate:       m.cfg.Gate,
			Telemetry:  m.cfg.Telemetry,
			ScrollLock: m.lock,
		})
		if !o.ShouldRun(p.Route) {
			continue
		}
		if err := o.Mount(pageCtx, p.Route); err != nil {
			m.logger.Warn().Err(err).Msg("failed to mount overlay")
			continue
		}
		m.overlays = append(m.overlays, o)
	}
	m.logger.Debug().Str("route", p.Route).Int("overlays", len(m.overlays)).Msg("page loaded")
}

// skipTop skips the top-most overlay that is still running.
func (m *model) skipTop() {
	for i := len(m.overlays) - 1; i >= 0; i-- {
		o := m.overlays[i]
		state := o.State()
		if state.Mounted && !state.Fading {
			o.Skip()
			return
		}
	}
}

func (m *model) nextRoute(step int) string {
	routes := m.cfg.Site.Routes()
	if len(routes) == 0 || m.page == nil {
		return m.cfg.Route
	}
	idx := 0
	for i, r := range routes {
		if r == m.page.Route {
			idx = i
		}
	}
	idx = (idx + step + len(routes)) % len(routes)
	return routes[idx]
}

// moveSelection moves reveal focus across hidden panels.
func (m *model) moveSelection(step int) {
	if m.page == nil {
		return
	}
	var hidden []string
	for _, panel := range m.page.Panels() {
		if panel.Hidden && panel.Notice == "" {
			hidden = append(hidden, panel.ID)
		}
	}
	if len(hidden) == 0 {
		m.selected = ""
		return
	}
	idx := -1
	for i, id := range hidden {
		if id == m.selected {
			idx = i
		}
	}
	switch {
	case idx < 0 && step >= 0:
		idx = 0
	case idx < 0:
		idx = len(hidden) - 1
	default:
		idx = (idx + step + len(hidden)) % len(hidden)
	}
	m.selected = hidden[idx]
}

// scrollToSelected brings the focused reveal action into view.
func (m *model) scrollToSelected() {
	if m.page == nil || m.selected == "" || m.lock.Locked() {
		return
	}
	m.refresh()
	row, ok := m.page.RevealRows()[m.selected]
	if !ok {
		return
	}
	if row < m.viewport.YOffset || row >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(row)
	}
}

func (m *model) clickSelected() {
	if m.page == nil || m.selected == "" || m.lock.Locked() {
		return
	}
	// Status messages outlive navigation so a panel never stays half revealed.
	if err := m.reveal.Click(m.ctx, m.page, m.selected); err != nil {
		m.logger.Debug().Err(err).Msg("reveal ignored")
		return
	}
	m.moveSelection(1)
}

// refresh re-renders the page body into the viewport and tracks the
// section at the top of it.
func (m *model) refresh() {
	if m.page == nil {
		return
	}
	if m.selected != "" {
		if panel, ok := m.page.Panel(m.selected); !ok || !panel.Hidden {
			m.selected = ""
		}
	}
	if m.selected == "" {
		m.moveSelection(1)
	}
	body := components.RenderBody(m.styles, m.page.Body(), m.selected)
	m.viewport.SetContent(strings.Join(body, "\n"))
	m.page.TrackSection(m.viewport.YOffset)
}

func (m *model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-m.headerRows()-footerRows, 1)
}

func (m *model) headerRows() int {
	if m.page == nil {
		return 2
	}
	return len(m.page.Regions()) + 2
}

func (m *model) shutdown() {
	for _, o := range m.overlays {
		o.Close()
	}
	m.cancel()
}

func (m *model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		return strings.Join(m.smallViewLines(), "\n") + "\n"
	}
	if m.page == nil {
		return m.styles.Muted.Render("Loading…") + "\n"
	}
	m.resize()

	width := m.width
	if width <= 0 {
		width = minWidth
	}

	lines := []string{m.titleLine(width)}
	lines = append(lines, components.RenderRegions(m.styles, m.page.Regions())...)
	lines = append(lines, m.styles.Border.Render(strings.Repeat("─", width)))

	if boxes := m.overlayBoxes(width); boxes != "" {
		lines = append(lines, lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, boxes))
	} else if len(m.page.Sections) == 0 {
		lines = append(lines, components.EmptyPage(m.page.Route).Render(m.styles))
	} else {
		lines = append(lines, m.viewport.View())
	}

	lines = append(lines, m.styles.Border.Render(strings.Repeat("─", width)), m.footerLine())
	return strings.Join(lines, "\n")
}

func (m *model) titleLine(width int) string {
	title := m.styles.Title.Render("Ahead · " + m.page.Title)
	var badges []string
	for _, o := range m.overlays {
		if badge := components.RenderOverlayBadge(m.styles, o.State()); badge != "" {
			badges = append(badges, badge)
		}
	}
	right := strings.Join(badges, "  ")
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(right), 1)
	return title + strings.Repeat(" ", gap) + right
}

func (m *model) overlayBoxes(width int) string {
	var boxes []string
	boxWidth := min(width-4, 72)
	for _, o := range m.overlays {
		if box := components.RenderOverlay(m.styles, o.State(), boxWidth); box != "" {
			boxes = append(boxes, box)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, boxes...)
}

func (m *model) footerLine() string {
	help := "tab page · ↑/↓ scroll · ←/→ select · enter reveal · s skip · q quit"
	if m.lock.Locked() {
		help = "scroll locked · s skip · q quit"
	}
	if m.status != "" {
		return m.styles.Error.Render(m.status) + "  " + m.styles.Muted.Render(help)
	}
	return m.styles.Muted.Render(help)
}

func (m *model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}
