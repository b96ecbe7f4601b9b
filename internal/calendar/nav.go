package calendar

// Advance returns the first day of the month direction months away from
// month. Year boundaries roll over in both directions.
func Advance(month Date, direction int) Date {
	return month.AddMonths(direction)
}

// Cursor tracks the displayed month, always normalized to its first day.
// It has a single owner and is not safe for concurrent use.
type Cursor struct {
	month Date
}

// NewCursor starts a cursor on the month containing d.
func NewCursor(d Date) *Cursor {
	return &Cursor{month: d.FirstOfMonth()}
}

// Month returns the displayed month.
func (c *Cursor) Month() Date { return c.month }

// Prev moves one month back and returns the new month.
func (c *Cursor) Prev() Date {
	c.month = Advance(c.month, -1)
	return c.month
}

// Next moves one month forward and returns the new month.
func (c *Cursor) Next() Date {
	c.month = Advance(c.month, 1)
	return c.month
}

// Reset jumps to the month containing selected.
func (c *Cursor) Reset(selected Date) {
	c.month = selected.FirstOfMonth()
}
