package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// MonthGrid is everything needed to draw one month.
type MonthGrid struct {
	Label   string
	Headers [7]string
	Cells   []calendar.DayCell[domain.CalendarEvent]
	Today   calendar.Date
	// Selected is the highlighted cell position, or -1.
	Selected int
}

const (
	// MinCellWidth keeps a day number plus a short title readable.
	MinCellWidth = 8
	// eventsPerCell is how many titles fit under the day number.
	eventsPerCell = 2
)

// RenderMonth draws the grid as six week rows of seven cells.
func RenderMonth(g MonthGrid, cellWidth int) string {
	cellWidth = max(cellWidth, MinCellWidth)
	cellStyle := lipgloss.NewStyle().Width(cellWidth).Height(eventsPerCell + 2)

	var rows []string
	rows = append(rows, StyleHeader.Render(g.Label), "")

	headers := make([]string, 7)
	for i, h := range g.Headers {
		headers[i] = lipgloss.NewStyle().Width(cellWidth).Render(Dim(h))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, headers...))

	for week := 0; week*7 < len(g.Cells); week++ {
		blocks := make([]string, 0, 7)
		for col := 0; col < 7; col++ {
			i := week*7 + col
			if i >= len(g.Cells) {
				break
			}
			blocks = append(blocks, cellStyle.Render(renderCell(g, i, cellWidth-1)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}
	return strings.Join(rows, "\n")
}

func renderCell(g MonthGrid, i, width int) string {
	cell := g.Cells[i]
	if cell.IsPadding() {
		return ""
	}

	num := fmt.Sprintf("%2d", cell.Date.Day)
	switch {
	case i == g.Selected:
		num = StyleSelected.Render(num)
	case cell.IsToday:
		num = StyleToday.Render(num)
	default:
		num = StyleFg.Render(num)
	}

	lines := []string{num}
	for j, ev := range cell.Events {
		if j == eventsPerCell {
			lines = append(lines, Dim(fmt.Sprintf("+%d", len(cell.Events)-eventsPerCell)))
			break
		}
		lines = append(lines, eventStyle(ev, g.Today).Render(Truncate(ev.Title, width)))
	}
	return strings.Join(lines, "\n")
}

func eventStyle(ev domain.CalendarEvent, today calendar.Date) lipgloss.Style {
	if ev.Card == nil {
		return StyleBlue
	}
	return StatusStyle(StatusOf(ev.Card, today))
}

// FormatDayEvents lists the entries of one day.
func FormatDayEvents(day calendar.Date, events []domain.CalendarEvent, today calendar.Date) string {
	var b strings.Builder
	b.WriteString(Header(FormatDay(day) + " · " + RelativeDay(day, today)))
	b.WriteString("\n")
	if len(events) == 0 {
		b.WriteString(Dim("Нет записей."))
		b.WriteString("\n")
		return b.String()
	}
	for _, ev := range events {
		b.WriteString(FormatEventLine(ev, today))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatEventLine renders one calendar entry with its span and origin.
func FormatEventLine(ev domain.CalendarEvent, today calendar.Date) string {
	span := FormatDay(ev.Start)
	if !ev.End.Equal(ev.Start) {
		span += " – " + FormatDay(ev.End)
	}
	if ev.Card != nil {
		status := StatusOf(ev.Card, today)
		return fmt.Sprintf("%s %s  %s  %s",
			StatusStyle(status).Render("●"), Bold(ev.Title), Dim(span), Dim(ev.Card.Executor))
	}
	return fmt.Sprintf("%s %s  %s  %s", StyleBlue.Render("◆"), ev.Title, Dim(span), Dim(ev.Source))
}
