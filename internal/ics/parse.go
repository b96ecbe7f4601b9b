// Package ics reads external iCalendar files so their entries can be shown
// next to control cards on the month view.
package ics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
)

// Entry is one VEVENT as read from the file. Recurrences are expanded later
// by Expand.
type Entry struct {
	Source  string
	UID     string
	Summary string

	Start  time.Time
	End    time.Time
	AllDay bool

	RRule      string
	ExDates    []time.Time
	Recurrence *time.Time
}

// Parse reads every VEVENT from r. Entries that cannot be interpreted are
// logged and skipped.
func Parse(r io.Reader, source string) ([]Entry, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar %s: %w", source, err)
	}

	var out []Entry
	for _, ve := range cal.Events() {
		e, err := parseEvent(source, ve)
		if err != nil {
			log.WithField("source", source).WithError(err).Warn("skipping calendar entry")
			continue
		}
		out = append(out, e)
	}
	log.WithFields(log.Fields{"source": source, "entries": len(out)}).Debug("calendar parsed")
	return out, nil
}

// ParseFile reads the calendar at path, named after the file.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening calendar: %w", err)
	}
	defer f.Close()
	return Parse(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

func parseEvent(source string, ve *ical.VEvent) (Entry, error) {
	e := Entry{Source: source}

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return e, errors.New("missing UID")
	}
	e.UID = uid.Value
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Summary = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return e, errors.New("missing DTSTART")
	}
	e.AllDay = isDateValue(dtStart)
	if e.AllDay {
		t, err := time.ParseInLocation("20060102", strings.TrimSpace(dtStart.Value), time.Local)
		if err != nil {
			return e, fmt.Errorf("parsing DTSTART: %w", err)
		}
		e.Start = t
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if t, err := time.ParseInLocation("20060102", strings.TrimSpace(dtEnd.Value), time.Local); err == nil {
				e.End = t
			}
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return e, fmt.Errorf("parsing DTSTART: %w", err)
		}
		e.Start = start
		if end, err := ve.GetEndAt(); err == nil {
			e.End = end
		}
	}
	if e.End.IsZero() || e.End.Before(e.Start) {
		e.End = e.Start
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		e.RRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part); err == nil {
				e.ExDates = append(e.ExDates, t)
			}
		}
	}
	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, err := parseICSTime(p.Value); err == nil {
			e.Recurrence = &t
		}
	}
	return e, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// parseICSTime handles the UTC, floating and date-only forms used by EXDATE
// and RECURRENCE-ID.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}
