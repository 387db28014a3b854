package components

import (
	"strings"

	"github.com/aheadhealth/onboard/internal/page"
	"github.com/aheadhealth/onboard/internal/tui/styles"
)

// RenderRegions draws the header regions of a page, one per row. Regions an
// overlay points at use the peek style. Navigation items are listed after
// their region label with the tracked section marked.
func RenderRegions(styleSet styles.Styles, regions []*page.Region) []string {
	rows := make([]string, 0, len(regions))
	for _, region := range regions {
		style := styleSet.Region
		if region.Highlighted() {
			style = styleSet.RegionPeek
		}
		row := style.Render(region.Label)
		if len(region.Items) > 0 {
			items := make([]string, 0, len(region.Items))
			for _, item := range region.Items {
				if item.Active {
					items = append(items, styleSet.NavActive.Render(item.Label))
				} else {
					items = append(items, styleSet.NavItem.Render(item.Label))
				}
			}
			row += " " + strings.Join(items, "")
		}
		rows = append(rows, row)
	}
	return rows
}
