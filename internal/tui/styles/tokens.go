package styles

// ThemeTokens defines the semantic color roles for the TUI.
type ThemeTokens struct {
	Background string
	Surface    string
	Text       string
	TextMuted  string
	Border     string
	Accent     string

	// Peek backs a page region an overlay message points at.
	Peek      string
	NavActive string

	// Notice backs the reveal status message.
	Notice string

	Success  string
	Warning  string
	Risk     string
	MildRisk string
	Error    string
}

// Theme bundles a palette with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// ThemeByName returns the named theme, falling back to DefaultTheme.
func ThemeByName(name string) Theme {
	if theme, ok := Themes[name]; ok {
		return theme
	}
	return DefaultTheme
}
