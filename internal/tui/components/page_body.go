package components

import (
	"github.com/aheadhealth/onboard/internal/page"
	"github.com/aheadhealth/onboard/internal/tui/styles"
)

// RenderBody styles page body lines. selected is the panel id whose reveal
// action has keyboard focus.
func RenderBody(styleSet styles.Styles, lines []page.Line, selected string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, renderBodyLine(styleSet, line, selected))
	}
	return out
}

func renderBodyLine(styleSet styles.Styles, line page.Line, selected string) string {
	switch line.Kind {
	case page.LineHeading:
		return styleSet.Heading.Render(line.Text)
	case page.LinePanelTitle:
		return "  " + styleSet.PanelTitle.Render(line.Text)
	case page.LineResult:
		style := styleSet.InRange
		if line.Result != nil && line.Result.OutOfRange() {
			style = styleSet.OutOfRange
			if line.Result.Status == page.StatusMildRisk {
				style = styleSet.MildRisk
			}
		}
		return "    " + style.Render(line.Text)
	case page.LineReveal:
		label := "[ " + line.Text + " ]"
		if line.PanelID == selected {
			label = "▶ " + label
		} else {
			label = "  " + label
		}
		text := "  " + styleSet.Text.Render(label)
		switch {
		case line.Warning && line.MildRisk:
			text += " " + styleSet.RevealMild.Render("!")
		case line.Warning:
			text += " " + styleSet.RevealWarning.Render("!")
		}
		return text
	case page.LineNotice:
		if line.Fading {
			return "  " + styleSet.NoticeFading.Render(line.Text)
		}
		return "  " + styleSet.Notice.Render(line.Text)
	case page.LineBlank:
		return ""
	default:
		return "  " + styleSet.Text.Render(line.Text)
	}
}
