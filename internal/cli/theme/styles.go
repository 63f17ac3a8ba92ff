package theme

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the terminal styles derived from a palette.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Error    lipgloss.Style
	Box      lipgloss.Style
}

// NewStyles builds styles for p rendering to w. Colour support is detected
// from w, so styles degrade to plain text when w is not a terminal.
func NewStyles(p Palette, w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	c := p.Colors

	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(color(c.Primary)),
		Label:    r.NewStyle().Foreground(color(c.TextSecondary)),
		Value:    r.NewStyle().Bold(true).Foreground(color(c.TextPrimary)),
		Muted:    r.NewStyle().Foreground(color(c.TextMuted)),
		Accent:   r.NewStyle().Foreground(color(c.Accent)),
		Positive: r.NewStyle().Foreground(color(c.PrimaryLight)),
		Negative: r.NewStyle().Foreground(color(c.AccentHover)),
		Error:    r.NewStyle().Bold(true).Foreground(color(c.Accent)),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(c.Border)).
			Padding(0, 1),
	}
}

// color maps hex tokens to lipgloss colours; rgba() tokens have no terminal
// equivalent and render uncoloured.
func color(token string) lipgloss.TerminalColor {
	if strings.HasPrefix(token, "#") {
		return lipgloss.Color(token)
	}
	return lipgloss.NoColor{}
}
