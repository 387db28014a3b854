package page

import (
	"fmt"
	"math"
	"strings"
)

// LineKind classifies a body line for styling.
type LineKind int

const (
	LineText LineKind = iota
	LineHeading
	LinePanelTitle
	LineResult
	LineReveal
	LineNotice
	LineBlank
)

// RevealLabel is the default text of the reveal action.
const RevealLabel = "Show content"

// Line is one row of the scrollable page body.
type Line struct {
	Kind      LineKind
	Text      string
	SectionID string
	PanelID   string
	Result    *Result

	// Warning marks a reveal action over a panel with out-of-range values.
	Warning  bool
	MildRisk bool
	Fading   bool
}

// Body lays the sections out as rows.
func (p *Page) Body() []Line {
	var lines []Line
	for i, s := range p.Sections {
		if i > 0 {
			lines = append(lines, Line{Kind: LineBlank, SectionID: s.ID})
		}
		lines = append(lines, Line{Kind: LineHeading, Text: s.Heading, SectionID: s.ID})
		for _, text := range s.Text {
			lines = append(lines, Line{Kind: LineText, Text: text, SectionID: s.ID})
		}
		for _, panel := range s.Panels {
			lines = append(lines, panelLines(s.ID, panel)...)
		}
	}
	return lines
}

func panelLines(sectionID string, panel *Panel) []Line {
	lines := []Line{{Kind: LinePanelTitle, Text: panel.Title, SectionID: sectionID, PanelID: panel.ID}}
	switch {
	case panel.Notice != "":
		lines = append(lines, Line{
			Kind:      LineNotice,
			Text:      panel.Notice,
			SectionID: sectionID,
			PanelID:   panel.ID,
			Fading:    panel.NoticeFading,
		})
	case panel.Hidden:
		label := panel.ButtonLabel
		if label == "" {
			label = RevealLabel
		}
		lines = append(lines, Line{
			Kind:      LineReveal,
			Text:      label,
			SectionID: sectionID,
			PanelID:   panel.ID,
			Warning:   panel.OutOfRangeCount() > 0,
			MildRisk:  panel.MildRisk(),
		})
	default:
		for i := range panel.Results {
			r := &panel.Results[i]
			lines = append(lines, Line{
				Kind:      LineResult,
				Text:      fmt.Sprintf("%-22s %10s  %s", r.Name, r.Value, r.Status),
				SectionID: sectionID,
				PanelID:   panel.ID,
				Result:    r,
			})
		}
	}
	return lines
}

// RevealRows returns the body row of every reveal action, keyed by panel id.
func (p *Page) RevealRows() map[string]int {
	rows := map[string]int{}
	for i, line := range p.Body() {
		if line.Kind == LineReveal {
			rows[line.PanelID] = i
		}
	}
	return rows
}

// TrackSection marks the navigation item of the section whose heading is
// closest to row top as active. It returns the active section heading, or
// "" when nothing matches.
func (p *Page) TrackSection(top int) string {
	nav, ok := p.Region(RegionSystemNavigation)
	if !ok {
		return ""
	}

	heading := ""
	best := math.MaxInt
	for i, line := range p.Body() {
		if line.Kind != LineHeading {
			continue
		}
		d := i - top
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
			heading = line.Text
		}
	}

	matched := -1
	if heading != "" {
		for i, item := range nav.Items {
			if strings.Contains(item.Label, heading) {
				matched = i
				break
			}
		}
	}
	for i := range nav.Items {
		nav.Items[i].Active = i == matched
	}
	if matched < 0 {
		return ""
	}
	return heading
}
