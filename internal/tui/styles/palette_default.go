package styles

// DefaultTheme is the baseline palette.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background: "#121212",
		Surface:    "#1E1A22",
		Text:       "#F4F1F6",
		TextMuted:  "#9A92A3",
		Border:     "#3A3142",
		Accent:     "#8E5BA8",
		Peek:       "#4B2D5C",
		NavActive:  "#E0E0E0",
		Notice:     "#121212",
		Success:    "#3FB950",
		Warning:    "#D29922",
		Risk:       "#6B2F8A",
		MildRisk:   "#C4622D",
		Error:      "#F85149",
	},
}
