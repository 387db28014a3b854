package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme   Theme
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Border  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Region     lipgloss.Style
	RegionPeek lipgloss.Style
	NavItem    lipgloss.Style
	NavActive  lipgloss.Style

	Heading    lipgloss.Style
	PanelTitle lipgloss.Style
	InRange    lipgloss.Style
	OutOfRange lipgloss.Style
	MildRisk   lipgloss.Style

	RevealButton  lipgloss.Style
	RevealWarning lipgloss.Style
	RevealMild    lipgloss.Style
	Notice        lipgloss.Style
	NoticeFading  lipgloss.Style

	Overlay       lipgloss.Style
	OverlayFading lipgloss.Style
	MessageIdle   lipgloss.Style
	MessageFading lipgloss.Style
	Message       lipgloss.Style
	Pinned        lipgloss.Style
	PinnedDimmed  lipgloss.Style
	Skip          lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

	return Styles{
		Theme:   theme,
		Title:   fg(tokens.Text).Bold(true),
		Text:    fg(tokens.Text),
		Muted:   fg(tokens.TextMuted),
		Accent:  fg(tokens.Accent),
		Border:  fg(tokens.Border),
		Success: fg(tokens.Success),
		Warning: fg(tokens.Warning),
		Error:   fg(tokens.Error),

		Region:     fg(tokens.Text).Padding(0, 1),
		RegionPeek: fg(tokens.Text).Background(lipgloss.Color(tokens.Peek)).Bold(true).Padding(0, 1),
		NavItem:    fg(tokens.TextMuted).Padding(0, 1),
		NavActive:  fg(tokens.Background).Background(lipgloss.Color(tokens.NavActive)).Padding(0, 1),

		Heading:    fg(tokens.Accent).Bold(true),
		PanelTitle: fg(tokens.Text).Underline(true),
		InRange:    fg(tokens.Success),
		OutOfRange: fg(tokens.Risk).Bold(true),
		MildRisk:   fg(tokens.MildRisk),

		RevealButton:  fg(tokens.Text).Background(lipgloss.Color(tokens.Surface)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(tokens.Border)).Padding(0, 1),
		RevealWarning: fg("#FFFFFF").Background(lipgloss.Color(tokens.Risk)).Bold(true),
		RevealMild:    fg(tokens.MildRisk).Bold(true),
		Notice:        fg("#FFFFFF").Background(lipgloss.Color(tokens.Notice)).Padding(0, 2),
		NoticeFading:  fg(tokens.TextMuted).Background(lipgloss.Color(tokens.Notice)).Faint(true).Padding(0, 2),

		Overlay:       lipgloss.NewStyle().Background(lipgloss.Color(tokens.Surface)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(tokens.Accent)).Padding(1, 3),
		OverlayFading: lipgloss.NewStyle().Background(lipgloss.Color(tokens.Surface)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(tokens.Border)).Faint(true).Padding(1, 3),
		MessageIdle:   fg(tokens.Surface),
		MessageFading: fg(tokens.TextMuted).Faint(true),
		Message:       fg(tokens.Text).Bold(true),
		Pinned:        fg(tokens.Text),
		PinnedDimmed:  fg(tokens.TextMuted).Faint(true),
		Skip:          fg(tokens.TextMuted).Italic(true),
	}
}
