// Package calendar builds month grids and maps dated entries onto the days
// they cover. Everything here is pure: callers rebuild the index when their
// entries change and rebuild the grid when the displayed month changes.
package calendar

// Event is anything that occupies an inclusive range of calendar days.
type Event interface {
	EventID() string
	StartDate() Date
	EndDate() Date
}

// Index maps a day to the events covering it. Days without events are absent.
type Index[E Event] map[DayKey][]E

// BuildIndex walks each event from its start to its end date, one day at a
// time, and appends it to every day it covers. Per-day lists keep the input
// order. An event whose end precedes its start covers no days and is dropped
// without error.
func BuildIndex[E Event](events []E) Index[E] {
	idx := make(Index[E])
	for _, ev := range events {
		end := ev.EndDate().Key()
		for d := ev.StartDate(); d.Key() <= end; d = d.AddDays(1) {
			k := d.Key()
			idx[k] = append(idx[k], ev)
		}
	}
	return idx
}

// On returns the events covering d, or nil.
func (idx Index[E]) On(d Date) []E {
	return idx[d.Key()]
}

// Days returns the number of distinct days carrying at least one event.
func (idx Index[E]) Days() int {
	return len(idx)
}
