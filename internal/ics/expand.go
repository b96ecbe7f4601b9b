package ics

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
)

// MaxOccurrences caps how many instances of one recurring entry are
// produced for a single window.
const MaxOccurrences = 1000

// Expand turns entries into calendar events overlapping [from, to], with
// recurring entries unrolled and days taken in loc. An all-day entry's DTEND
// is exclusive; a timed entry ending exactly at midnight does not occupy the
// following day.
func Expand(entries []Entry, from, to calendar.Date, loc *time.Location) []domain.CalendarEvent {
	if loc == nil {
		loc = time.Local
	}
	overrides := make(map[string][]Entry)
	var bases []Entry
	for _, e := range entries {
		if e.Recurrence != nil {
			overrides[e.UID] = append(overrides[e.UID], e)
			continue
		}
		bases = append(bases, e)
	}

	var out []domain.CalendarEvent
	for _, e := range bases {
		for _, occ := range occurrences(e, from, to, loc) {
			if o, ok := findOverride(overrides[e.UID], occ.start); ok {
				occ = instance{entry: o, start: o.Start, end: o.End}
			}
			ev := toEvent(occ, loc)
			if ev.End.Before(from) || ev.Start.After(to) {
				continue
			}
			out = append(out, ev)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

type instance struct {
	entry      Entry
	start, end time.Time
}

func occurrences(e Entry, from, to calendar.Date, loc *time.Location) []instance {
	if e.RRule == "" {
		return []instance{{entry: e, start: e.Start, end: e.End}}
	}

	r, err := rrule.StrToRRule(e.RRule)
	if err != nil {
		log.WithFields(log.Fields{"uid": e.UID, "rrule": e.RRule}).WithError(err).Warn("ignoring recurrence rule")
		return []instance{{entry: e, start: e.Start, end: e.End}}
	}
	r.DTStart(e.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range e.ExDates {
		set.ExDate(ex.In(e.Start.Location()))
	}

	dur := e.End.Sub(e.Start)
	// Widen the window by the entry length so multi-day instances starting
	// before from are still found.
	windowStart := from.Time(loc).Add(-dur).In(e.Start.Location())
	windowEnd := to.AddDays(1).Time(loc).In(e.Start.Location())

	times := set.Between(windowStart, windowEnd, true)
	if len(times) > MaxOccurrences {
		log.WithFields(log.Fields{"uid": e.UID, "cap": MaxOccurrences}).Warn("truncating recurring entry")
		times = times[:MaxOccurrences]
	}

	out := make([]instance, 0, len(times))
	for _, t := range times {
		out = append(out, instance{entry: e, start: t, end: t.Add(dur)})
	}
	return out
}

func findOverride(overrides []Entry, start time.Time) (Entry, bool) {
	for _, o := range overrides {
		if o.Recurrence.Equal(start) {
			return o, true
		}
	}
	return Entry{}, false
}

func toEvent(in instance, loc *time.Location) domain.CalendarEvent {
	var start, end calendar.Date
	if in.entry.AllDay {
		start = calendar.DateOf(in.start)
		end = calendar.DateOf(in.end)
		if end.After(start) {
			end = end.AddDays(-1)
		}
	} else {
		s := in.start.In(loc)
		e := in.end.In(loc)
		start = calendar.DateOf(s)
		end = calendar.DateOf(e)
		if e.After(s) && end.After(start) && e.Equal(end.Time(loc)) {
			end = end.AddDays(-1)
		}
	}
	return domain.CalendarEvent{
		ID:     fmt.Sprintf("%s:%s:%s:%s", domain.SourceICS, in.entry.Source, in.entry.UID, start.Key()),
		Title:  in.entry.Summary,
		Start:  start,
		End:    end,
		Source: domain.SourceICS + ":" + in.entry.Source,
	}
}
