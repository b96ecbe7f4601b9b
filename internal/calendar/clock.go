package calendar

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant until moved.
type FixedClock struct {
	FixedNow time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.FixedNow
}

func (c *FixedClock) SetNow(now time.Time) {
	c.FixedNow = now
}

// Today returns the clock's current calendar day.
func Today(c Clock) Date {
	return DateOf(c.Now())
}

// ZonedClock reports the time of Clock in Location, so Today follows the
// configured timezone rather than the host's.
type ZonedClock struct {
	Clock    Clock
	Location *time.Location
}

func (c ZonedClock) Now() time.Time {
	return c.Clock.Now().In(c.Location)
}
