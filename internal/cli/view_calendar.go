package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type calendarKeyMap struct {
	Left, Right, Up, Down key.Binding
	PrevMonth, NextMonth  key.Binding
	Today, Open, Reload   key.Binding
}

var calendarKeys = calendarKeyMap{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→↑↓", "день")),
	Right:     key.NewBinding(key.WithKeys("right", "l")),
	Up:        key.NewBinding(key.WithKeys("up", "k")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	PrevMonth: key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[ ]", "месяц")),
	NextMonth: key.NewBinding(key.WithKeys("]", "n")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "сегодня")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "открыть")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "обновить")),
}

type eventsLoadedMsg struct {
	events []domain.CalendarEvent
	err    error
}

const (
	defaultCellWidth = 14
	maxCellWidth     = 24
)

// calendarView shows one month with a day cursor. The cursor never leaves
// the days of the displayed month.
type calendarView struct {
	state     *SharedState
	month     *calendar.Month[domain.CalendarEvent]
	weekStart time.Weekday
	selected  calendar.Date
	loaded    bool
	err       error
}

func newCalendarView(state *SharedState) *calendarView {
	weekStart := time.Monday
	lang := calendar.LangRU
	if s := state.App.Settings; s != nil {
		weekStart = s.WeekStart()
		lang = calendar.Language(s.Language)
	}
	today := state.Today()
	return &calendarView{
		state:     state,
		weekStart: weekStart,
		selected:  today,
		month: calendar.NewMonth[domain.CalendarEvent](today, nil,
			calendar.WithClock(state.Clock()),
			calendar.WithWeekStart(weekStart),
			calendar.WithLanguage(lang),
		),
	}
}

func (v *calendarView) Init() tea.Cmd {
	return v.load()
}

func (v *calendarView) load() tea.Cmd {
	svc, token, extra := v.state.App.Calendar, v.state.Token, v.state.Extra
	return func() tea.Msg {
		events, err := svc.Events(context.Background(), token, extra)
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (v *calendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		if msg.err != nil && v.loaded {
			// Keep showing the last good month.
			return v, showError(msg.err)
		}
		v.err = msg.err
		if msg.err == nil {
			v.month.SetEvents(msg.events)
			v.loaded = true
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, calendarKeys.Left):
			v.move(-1)
		case key.Matches(msg, calendarKeys.Right):
			v.move(1)
		case key.Matches(msg, calendarKeys.Up):
			v.move(-7)
		case key.Matches(msg, calendarKeys.Down):
			v.move(7)
		case key.Matches(msg, calendarKeys.PrevMonth):
			v.selected = sameDayIn(v.month.Prev(), v.selected.Day)
		case key.Matches(msg, calendarKeys.NextMonth):
			v.selected = sameDayIn(v.month.Next(), v.selected.Day)
		case key.Matches(msg, calendarKeys.Today):
			v.selected = v.state.Today()
			v.month.Reset(v.selected)
		case key.Matches(msg, calendarKeys.Reload):
			return v, refreshViews()
		case key.Matches(msg, calendarKeys.Open):
			day, events, ok := v.month.Select(v.cursorIndex())
			if !ok {
				return v, nil
			}
			return v, pushView(newDayView(v.state, day, events))
		}
	}
	return v, nil
}

// move shifts the cursor by n days when the target stays in the month.
func (v *calendarView) move(n int) {
	d := v.selected.AddDays(n)
	if d.SameMonth(v.month.Current()) {
		v.selected = d
	}
}

// sameDayIn returns day of month, clamped to its length.
func sameDayIn(month calendar.Date, day int) calendar.Date {
	return calendar.NewDate(month.Year, month.Month, min(day, month.DaysInMonth()))
}

// cursorIndex is the grid position of the selected day.
func (v *calendarView) cursorIndex() int {
	return calendar.LeadingPadding(v.month.Current(), v.weekStart) + v.selected.Day - 1
}

func (v *calendarView) cellWidth() int {
	if v.state.Width <= 0 {
		return defaultCellWidth
	}
	return min(max(v.state.Width/7, formatter.MinCellWidth), maxCellWidth)
}

func (v *calendarView) View() string {
	if v.err != nil {
		return formatter.StyleRed.Render("Не удалось загрузить календарь: " + v.err.Error())
	}

	grid := formatter.RenderMonth(formatter.MonthGrid{
		Label:    v.month.Label(),
		Headers:  v.month.WeekDays(),
		Cells:    v.month.Days(),
		Today:    v.state.Today(),
		Selected: v.cursorIndex(),
	}, v.cellWidth())

	count := len(v.month.Index().On(v.selected))
	footer := fmt.Sprintf("%s · записей: %d", formatter.FormatDay(v.selected), count)
	if !v.loaded {
		footer = "Загрузка…"
	}
	return grid + "\n" + formatter.Dim(footer)
}

func (v *calendarView) ID() ViewID    { return ViewCalendar }
func (v *calendarView) Title() string { return v.month.Label() }
func (v *calendarView) ShortHelp() []key.Binding {
	return []key.Binding{
		calendarKeys.Left, calendarKeys.PrevMonth, calendarKeys.Today, calendarKeys.Open, calendarKeys.Reload,
	}
}

// Selected returns the day under the cursor.
func (v *calendarView) Selected() calendar.Date { return v.selected }
