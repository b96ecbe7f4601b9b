package calendar

import "time"

// Month is a calendar view session: a month cursor plus the event set shown
// on it. The index is rebuilt only by SetEvents and the grid only by Days;
// nothing is recomputed behind the caller's back.
type Month[E Event] struct {
	cursor    *Cursor
	clock     Clock
	weekStart time.Weekday
	lang      Language

	events []E
	index  Index[E]
}

// MonthOption configures a Month.
type MonthOption func(*monthConfig)

type monthConfig struct {
	clock     Clock
	weekStart time.Weekday
	lang      Language
}

// WithClock overrides the clock used for the IsToday flag.
func WithClock(c Clock) MonthOption {
	return func(cfg *monthConfig) { cfg.clock = c }
}

// WithWeekStart sets the first grid column. Defaults to Monday.
func WithWeekStart(d time.Weekday) MonthOption {
	return func(cfg *monthConfig) { cfg.weekStart = d }
}

// WithLanguage sets the caption language. Defaults to Russian.
func WithLanguage(l Language) MonthOption {
	return func(cfg *monthConfig) { cfg.lang = l }
}

// NewMonth opens a view on the month containing initial.
func NewMonth[E Event](initial Date, events []E, opts ...MonthOption) *Month[E] {
	cfg := monthConfig{clock: SystemClock{}, weekStart: time.Monday, lang: LangRU}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &Month[E]{
		cursor:    NewCursor(initial),
		clock:     cfg.clock,
		weekStart: cfg.weekStart,
		lang:      cfg.lang,
	}
	m.SetEvents(events)
	return m
}

// SetEvents replaces the event set and rebuilds the index.
func (m *Month[E]) SetEvents(events []E) {
	m.events = events
	m.index = BuildIndex(events)
}

// Events returns the current event set.
func (m *Month[E]) Events() []E { return m.events }

// Index returns the current day index.
func (m *Month[E]) Index() Index[E] { return m.index }

// Current returns the displayed month.
func (m *Month[E]) Current() Date { return m.cursor.Month() }

// Days computes the 42-cell grid for the displayed month.
func (m *Month[E]) Days() []DayCell[E] {
	return BuildGridFrom(m.cursor.Month(), m.index, Today(m.clock), m.weekStart)
}

// Label returns the "MonthName Year" caption.
func (m *Month[E]) Label() string {
	return MonthLabel(m.cursor.Month(), m.lang)
}

// WeekDays returns the column captions.
func (m *Month[E]) WeekDays() [7]string {
	return WeekdayHeaders(m.weekStart, m.lang)
}

func (m *Month[E]) Prev() Date { return m.cursor.Prev() }
func (m *Month[E]) Next() Date { return m.cursor.Next() }

// Reset follows an external change of the selected date.
func (m *Month[E]) Reset(selected Date) { m.cursor.Reset(selected) }

// Select activates the cell at position i of the current grid.
func (m *Month[E]) Select(i int) (Date, []E, bool) {
	cells := m.Days()
	if i < 0 || i >= len(cells) {
		return Date{}, nil, false
	}
	return Select(cells[i])
}
