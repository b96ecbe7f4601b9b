package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// dateLayout is how dates are shown to users.
const dateLayout = "02.01.2006"

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDate renders an optional date, or a dash when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(dateLayout)
}

// FormatDay renders a calendar day the same way as FormatDate.
func FormatDay(d calendar.Date) string {
	return d.Time(time.UTC).Format(dateLayout)
}

// RelativeDay describes d relative to today in Russian.
func RelativeDay(d, today calendar.Date) string {
	days := int(d.Time(time.UTC).Sub(today.Time(time.UTC)).Hours() / 24)
	switch {
	case days == 0:
		return "сегодня"
	case days == 1:
		return "завтра"
	case days == -1:
		return "вчера"
	case days > 0:
		return fmt.Sprintf("через %d дн.", days)
	default:
		return fmt.Sprintf("%d дн. назад", -days)
	}
}

// Truncate shortens s to at most width visible columns, ending with "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// TruncID shortens a UUID to its first 8 characters.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Opt returns the pointed-to string or a dash.
func Opt(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}
