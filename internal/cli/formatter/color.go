package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox palette with a light variant for light terminals.
var (
	ColorGreen  = lipgloss.AdaptiveColor{Light: "#79740e", Dark: "#8ec07c"}
	ColorYellow = lipgloss.AdaptiveColor{Light: "#b57614", Dark: "#fabd2f"}
	ColorRed    = lipgloss.AdaptiveColor{Light: "#9d0006", Dark: "#fb4934"}
	ColorBlue   = lipgloss.AdaptiveColor{Light: "#076678", Dark: "#83a598"}
	ColorPurple = lipgloss.AdaptiveColor{Light: "#8f3f71", Dark: "#d3869b"}
	ColorDim    = lipgloss.AdaptiveColor{Light: "#7c6f64", Dark: "#928374"}
	ColorFg     = lipgloss.AdaptiveColor{Light: "#3c3836", Dark: "#ebdbb2"}
	ColorHeader = lipgloss.AdaptiveColor{Light: "#af3a03", Dark: "#fe8019"}
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)

	StyleToday    = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).Underline(true)
	StyleSelected = lipgloss.NewStyle().Reverse(true).Bold(true)
)

// ApplyTheme forces the adaptive colors to one variant. "auto" keeps the
// terminal's own background detection.
func ApplyTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}

// CardStatus classifies a card for coloring.
type CardStatus int

const (
	StatusNoDeadline CardStatus = iota
	StatusOnTrack
	StatusDueSoon
	StatusOverdue
)

// dueSoonDays is how close a deadline must be to count as due soon.
const dueSoonDays = 3

// StatusOf returns the status of c as seen on today.
func StatusOf(c *domain.ControlCard, today calendar.Date) CardStatus {
	dl := c.EffectiveDeadline()
	if dl == nil {
		return StatusNoDeadline
	}
	if c.IsOverdue(today) {
		return StatusOverdue
	}
	if !calendar.DateOf(*dl).After(today.AddDays(dueSoonDays)) {
		return StatusDueSoon
	}
	return StatusOnTrack
}

// StatusStyle returns the color used for a card status.
func StatusStyle(s CardStatus) lipgloss.Style {
	switch s {
	case StatusOverdue:
		return StyleRed
	case StatusDueSoon:
		return StyleYellow
	case StatusOnTrack:
		return StyleGreen
	default:
		return StyleDim
	}
}

// StatusIndicator renders a colored marker such as "● ПРОСРОЧЕНА".
func StatusIndicator(s CardStatus) string {
	switch s {
	case StatusOverdue:
		return StyleRed.Render("● ПРОСРОЧЕНА")
	case StatusDueSoon:
		return StyleYellow.Render("● СКОРО СРОК")
	case StatusOnTrack:
		return StyleGreen.Render("● В РАБОТЕ")
	default:
		return StyleDim.Render("● БЕЗ СРОКА")
	}
}

// Header renders a section header with an underline of the same width.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
