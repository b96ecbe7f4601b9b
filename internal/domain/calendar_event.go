package domain

import "github.com/alexanderramin/cardcal/internal/calendar"

// Event sources shown on the month view.
const (
	SourceCard = "card"
	SourceICS  = "ics"
)

// CalendarEvent is an entry of the month view: a control card or an entry
// imported from an external calendar.
type CalendarEvent struct {
	ID     string
	Title  string
	Start  calendar.Date
	End    calendar.Date
	Source string

	// Card is set when Source is SourceCard.
	Card *ControlCard
}

func (e CalendarEvent) EventID() string          { return e.ID }
func (e CalendarEvent) StartDate() calendar.Date { return e.Start }
func (e CalendarEvent) EndDate() calendar.Date   { return e.End }

// CardEvent wraps a card as a calendar entry.
func CardEvent(c *ControlCard) CalendarEvent {
	return CalendarEvent{
		ID:     c.ID,
		Title:  c.Title(),
		Start:  c.StartDate(),
		End:    c.EndDate(),
		Source: SourceCard,
		Card:   c,
	}
}
