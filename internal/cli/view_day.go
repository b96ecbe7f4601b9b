package cli

import (
	"strings"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	dayUp   = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "выбор"))
	dayDown = key.NewBinding(key.WithKeys("down", "j"))
	dayOpen = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "карточка"))
)

// dayView lists the entries of one day; enter opens the selected card.
type dayView struct {
	state  *SharedState
	day    calendar.Date
	events []domain.CalendarEvent
	cursor int
}

func newDayView(state *SharedState, day calendar.Date, events []domain.CalendarEvent) *dayView {
	return &dayView{state: state, day: day, events: events}
}

func (v *dayView) Init() tea.Cmd { return nil }

func (v *dayView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(keyMsg, dayUp):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(keyMsg, dayDown):
		if v.cursor < len(v.events)-1 {
			v.cursor++
		}
	case key.Matches(keyMsg, dayOpen):
		if v.cursor < len(v.events) {
			if c := v.events[v.cursor].Card; c != nil {
				return v, pushView(newCardView(v.state, c))
			}
		}
	}
	return v, nil
}

func (v *dayView) View() string {
	today := v.state.Today()
	var b strings.Builder
	b.WriteString(formatter.Header(formatter.FormatDay(v.day) + " · " + formatter.RelativeDay(v.day, today)))
	b.WriteString("\n")
	if len(v.events) == 0 {
		b.WriteString(formatter.Dim("Нет записей."))
		return b.String()
	}
	for i, ev := range v.events {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("› ")
		}
		b.WriteString(marker + formatter.FormatEventLine(ev, today) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *dayView) ID() ViewID    { return ViewDay }
func (v *dayView) Title() string { return formatter.FormatDay(v.day) }
func (v *dayView) ShortHelp() []key.Binding {
	return []key.Binding{dayUp, dayOpen}
}
