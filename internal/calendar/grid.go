package calendar

import "time"

// CellCount is the fixed grid size: six weeks of seven days, enough for a
// 31-day month that starts on the last column.
const CellCount = 42

// DayCell is one position of the month grid. Padding cells have a nil Date.
type DayCell[E Event] struct {
	Date           *Date
	IsCurrentMonth bool
	IsToday        bool
	Events         []E
}

// IsPadding reports whether the cell stands outside the displayed month.
func (c DayCell[E]) IsPadding() bool {
	return c.Date == nil
}

// BuildGrid lays out month as a Monday-first 6x7 grid. Cells of the month
// carry their events from idx and an IsToday flag compared against today.
func BuildGrid[E Event](month Date, idx Index[E], today Date) []DayCell[E] {
	return BuildGridFrom(month, idx, today, time.Monday)
}

// BuildGridFrom is BuildGrid with a configurable first column.
func BuildGridFrom[E Event](month Date, idx Index[E], today Date, weekStart time.Weekday) []DayCell[E] {
	first := month.FirstOfMonth()
	daysInMonth := first.DaysInMonth()
	lead := LeadingPadding(first, weekStart)

	cells := make([]DayCell[E], 0, CellCount)
	for i := 0; i < lead; i++ {
		cells = append(cells, paddingCell[E]())
	}

	for day := 1; day <= daysInMonth; day++ {
		d := Date{Year: first.Year, Month: first.Month, Day: day}
		events := idx.On(d)
		if events == nil {
			events = []E{}
		}
		cells = append(cells, DayCell[E]{
			Date:           &d,
			IsCurrentMonth: true,
			IsToday:        d.Equal(today),
			Events:         events,
		})
	}

	for len(cells) < CellCount {
		cells = append(cells, paddingCell[E]())
	}
	return cells
}

// LeadingPadding returns how many padding cells precede the first day of
// month when weeks start on weekStart. For Monday-first weeks this is 0 for a
// month starting on Monday and 6 for one starting on Sunday.
func LeadingPadding(month Date, weekStart time.Weekday) int {
	native := int(month.FirstOfMonth().Weekday())
	return (native - int(weekStart) + 7) % 7
}

func paddingCell[E Event]() DayCell[E] {
	return DayCell[E]{Events: []E{}}
}

// Select returns the date and events of an activated cell. Padding cells and
// cells outside the displayed month are not selectable.
func Select[E Event](cell DayCell[E]) (Date, []E, bool) {
	if cell.Date == nil || !cell.IsCurrentMonth {
		return Date{}, nil, false
	}
	return *cell.Date, cell.Events, true
}
