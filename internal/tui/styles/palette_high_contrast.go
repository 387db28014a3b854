package styles

// HighContrastTheme favors visibility on low-contrast terminals.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Tokens: ThemeTokens{
		Background: "#000000",
		Surface:    "#0A0A0A",
		Text:       "#FFFFFF",
		TextMuted:  "#C0C0C0",
		Border:     "#FFFFFF",
		Accent:     "#00A2FF",
		Peek:       "#0040A0",
		NavActive:  "#FFFFFF",
		Notice:     "#000000",
		Success:    "#00FF5A",
		Warning:    "#FFB000",
		Risk:       "#FF40FF",
		MildRisk:   "#FF8000",
		Error:      "#FF4040",
	},
}
