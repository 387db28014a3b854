// Package page models the terminal report page: routes, highlightable
// regions, report sections and result panels.
package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aheadhealth/onboard/internal/sequencer"
)

// Known routes.
const (
	RouteIndex      = "/index.html"
	RouteReport     = "/report.html"
	RouteActionPlan = "/action_plan.html"
)

// Region ids referenced by overlay messages.
const (
	RegionTopMenu          = "top-menu"
	RegionProfileMenu      = "profile-menu"
	RegionReportSelector   = "report-selector"
	RegionSystemNavigation = "system-navigation"
	RegionReportFilters    = "report-filters"
)

var ErrUnknownRoute = errors.New("unknown route")

// Region is a named area of the page header that overlays can emphasize.
// Highlights are counted so overlapping overlays never clear each other.
type Region struct {
	ID    string
	Label string
	Items []NavItem

	highlights int
}

// NavItem is an entry of a navigation region.
type NavItem struct {
	Label  string
	Active bool
}

// Highlight implements sequencer.Target.
func (r *Region) Highlight() {
	r.highlights++
}

// Unhighlight implements sequencer.Target.
func (r *Region) Unhighlight() {
	if r.highlights > 0 {
		r.highlights--
	}
}

// Highlighted reports whether any overlay is emphasizing the region.
func (r *Region) Highlighted() bool {
	return r.highlights > 0
}

// Result is one measured value.
type Result struct {
	Name   string
	Value  string
	Status string
}

// Out-of-range statuses.
const (
	StatusInRange    = "in range"
	StatusBelowRange = "below range"
	StatusAboveRange = "above range"
	StatusMildRisk   = "mild-risk"
)

// OutOfRange reports whether the result status needs attention.
func (r Result) OutOfRange() bool {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case StatusBelowRange, StatusAboveRange, StatusMildRisk:
		return true
	}
	return false
}

// Panel is a block of results that may be hidden behind a reveal action.
type Panel struct {
	ID      string
	Title   string
	Results []Result

	// Hidden panels render a reveal action labelled ButtonLabel instead of
	// their results.
	Hidden      bool
	ButtonLabel string

	// Notice replaces the panel body while set. NoticeFading marks its
	// fade out.
	Notice       string
	NoticeFading bool
}

// OutOfRangeCount counts results that need attention.
func (p *Panel) OutOfRangeCount() int {
	n := 0
	for _, r := range p.Results {
		if r.OutOfRange() {
			n++
		}
	}
	return n
}

// MildRisk reports whether any result carries the mild-risk badge.
func (p *Panel) MildRisk() bool {
	for _, r := range p.Results {
		if strings.EqualFold(strings.TrimSpace(r.Status), StatusMildRisk) {
			return true
		}
	}
	return false
}

// Section is a report heading followed by panels.
type Section struct {
	ID      string
	Heading string
	Text    []string
	Panels  []*Panel
}

// Page is one route of the site.
type Page struct {
	Route    string
	Title    string
	Sections []*Section

	regions []*Region
}

// New creates a page with the given header regions.
func New(route, title string, regions ...*Region) *Page {
	return &Page{Route: route, Title: title, regions: regions}
}

// Find implements sequencer.TargetLocator.
func (p *Page) Find(id string) (sequencer.Target, bool) {
	region, ok := p.Region(id)
	if !ok {
		return nil, false
	}
	return region, true
}

// Region returns the region with id.
func (p *Page) Region(id string) (*Region, bool) {
	for _, r := range p.regions {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Regions returns header regions in display order.
func (p *Page) Regions() []*Region {
	return p.regions
}

// Panel returns the panel with id.
func (p *Page) Panel(id string) (*Panel, bool) {
	for _, s := range p.Sections {
		for _, panel := range s.Panels {
			if panel.ID == id {
				return panel, true
			}
		}
	}
	return nil, false
}

// Panels returns every panel in page order.
func (p *Page) Panels() []*Panel {
	var panels []*Panel
	for _, s := range p.Sections {
		panels = append(panels, s.Panels...)
	}
	return panels
}

// AddSection appends a section.
func (p *Page) AddSection(section *Section) {
	p.Sections = append(p.Sections, section)
}

// Site is the set of pages reachable from the menu.
type Site struct {
	pages map[string]*Page
	order []string
}

// NewSite creates a site from pages. The first page is the landing page.
func NewSite(pages ...*Page) *Site {
	s := &Site{pages: make(map[string]*Page, len(pages))}
	for _, p := range pages {
		s.pages[p.Route] = p
		s.order = append(s.order, p.Route)
	}
	return s
}

// Page returns the page serving route. Routes match by suffix so
// "report.html" and "/app/report.html" both resolve to the report page.
func (s *Site) Page(route string) (*Page, error) {
	if p, ok := s.pages[route]; ok {
		return p, nil
	}
	for _, r := range s.order {
		if strings.HasSuffix(route, strings.TrimPrefix(r, "/")) {
			return s.pages[r], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, route)
}

// Routes lists routes in menu order.
func (s *Site) Routes() []string {
	return append([]string(nil), s.order...)
}
