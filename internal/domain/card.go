package domain

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/teambition/rrule-go"
)

type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// PeriodLabels are the display names of the execution period types.
var PeriodLabels = map[PeriodType]string{
	PeriodDaily:   "Ежедневно",
	PeriodWeekly:  "Еженедельно",
	PeriodMonthly: "Ежемесячно",
}

func (p PeriodType) Valid() bool {
	_, ok := PeriodLabels[p]
	return ok
}

func (p PeriodType) freq() (rrule.Frequency, bool) {
	switch p {
	case PeriodDaily:
		return rrule.DAILY, true
	case PeriodWeekly:
		return rrule.WEEKLY, true
	case PeriodMonthly:
		return rrule.MONTHLY, true
	default:
		return 0, false
	}
}

// Departments is the fixed list offered when filling in a card.
var Departments = []string{
	"Отдел кадров",
	"Бухгалтерия",
	"Юридический отдел",
	"Отдел продаж",
	"Отдел маркетинга",
	"IT-отдел",
	"Отдел закупок",
	"Производственный отдел",
}

// ControlCard is a numbered assignment tracked until its deadline.
// CardNumber is unique within Year.
type ControlCard struct {
	ID                string
	CardNumber        int
	Year              int
	Executor          string
	Reporter          string
	Summary           string
	DocumentReference string

	AuthorUserID     *string
	ExecutorUserID   *string
	ControllerUserID *string

	// IssuedOn is the day the card was opened; the card covers the calendar
	// from this day until its effective deadline.
	IssuedOn time.Time

	ReturnTo            *string
	ExecutionDeadline   *time.Time
	ExecutionPeriodType *PeriodType
	ExtendedDeadline    *time.Time
	Resolution          *string
	Department          *string
	Controller          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveDeadline returns the extended deadline if set, otherwise the
// execution deadline. Nil when the card has neither.
func (c *ControlCard) EffectiveDeadline() *time.Time {
	if c.ExtendedDeadline != nil {
		return c.ExtendedDeadline
	}
	return c.ExecutionDeadline
}

// DisplayNumber renders the card number as "№12/2024".
func (c *ControlCard) DisplayNumber() string {
	return fmt.Sprintf("№%d/%d", c.CardNumber, c.Year)
}

// Title is the one-line caption used in lists and calendar cells.
func (c *ControlCard) Title() string {
	return fmt.Sprintf("%s %s", c.DisplayNumber(), c.Summary)
}

func (c *ControlCard) EventID() string { return c.ID }

func (c *ControlCard) StartDate() calendar.Date {
	return calendar.DateOf(c.IssuedOn)
}

// EndDate is the effective deadline, or the issue day for cards without one.
func (c *ControlCard) EndDate() calendar.Date {
	if dl := c.EffectiveDeadline(); dl != nil {
		return calendar.DateOf(*dl)
	}
	return c.StartDate()
}

// IsOverdue reports whether the effective deadline lies before today.
func (c *ControlCard) IsOverdue(today calendar.Date) bool {
	dl := c.EffectiveDeadline()
	return dl != nil && calendar.DateOf(*dl).Before(today)
}

// ControlDates returns the periodic check-in days of the card that fall in
// [from, to]. Cards without a period type or deadline have none.
func (c *ControlCard) ControlDates(from, to calendar.Date) []calendar.Date {
	if c.ExecutionPeriodType == nil || c.EffectiveDeadline() == nil {
		return nil
	}
	freq, ok := c.ExecutionPeriodType.freq()
	if !ok {
		return nil
	}

	start := c.StartDate()
	end := c.EndDate()
	if end.Before(start) {
		return nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: start.Time(time.UTC),
		Until:   end.Time(time.UTC),
	})
	if err != nil {
		return nil
	}

	var out []calendar.Date
	for _, t := range r.Between(from.Time(time.UTC), to.Time(time.UTC), true) {
		out = append(out, calendar.DateOf(t))
	}
	return out
}

// Compile-time verification that *ControlCard is a calendar entry.
var _ calendar.Event = (*ControlCard)(nil)
