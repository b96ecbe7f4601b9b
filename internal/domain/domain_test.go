package domain

import (
	"testing"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "user", "controller"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.True(t, r.Valid())
	}
	_, err := ParseRole("root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
}

func TestRole_CanManageCards(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageCards())
	assert.True(t, RoleController.CanManageCards())
	assert.False(t, RoleUser.CanManageCards())
}

func TestControlCard_EffectiveDeadline(t *testing.T) {
	exec := day(2024, 3, 10)
	ext := day(2024, 3, 20)

	c := &ControlCard{IssuedOn: day(2024, 3, 1)}
	assert.Nil(t, c.EffectiveDeadline())
	assert.Equal(t, calendar.NewDate(2024, 3, 1), c.EndDate())

	c.ExecutionDeadline = &exec
	assert.Equal(t, exec, *c.EffectiveDeadline())

	c.ExtendedDeadline = &ext
	assert.Equal(t, ext, *c.EffectiveDeadline())
	assert.Equal(t, calendar.NewDate(2024, 3, 20), c.EndDate())
}

func TestControlCard_DisplayNumberAndTitle(t *testing.T) {
	c := &ControlCard{CardNumber: 12, Year: 2024, Summary: "Квартальный отчёт"}
	assert.Equal(t, "№12/2024", c.DisplayNumber())
	assert.Equal(t, "№12/2024 Квартальный отчёт", c.Title())
}

func TestControlCard_IsOverdue(t *testing.T) {
	dl := day(2024, 3, 10)
	c := &ControlCard{IssuedOn: day(2024, 3, 1), ExecutionDeadline: &dl}
	assert.False(t, c.IsOverdue(calendar.NewDate(2024, 3, 10)))
	assert.True(t, c.IsOverdue(calendar.NewDate(2024, 3, 11)))
	assert.False(t, (&ControlCard{IssuedOn: day(2024, 3, 1)}).IsOverdue(calendar.NewDate(2030, 1, 1)))
}

func TestControlCard_ControlDatesWeekly(t *testing.T) {
	dl := day(2024, 3, 31)
	p := PeriodWeekly
	c := &ControlCard{IssuedOn: day(2024, 3, 1), ExecutionDeadline: &dl, ExecutionPeriodType: &p}

	got := c.ControlDates(calendar.NewDate(2024, 3, 1), calendar.NewDate(2024, 3, 31))
	assert.Equal(t, []calendar.Date{
		calendar.NewDate(2024, 3, 1),
		calendar.NewDate(2024, 3, 8),
		calendar.NewDate(2024, 3, 15),
		calendar.NewDate(2024, 3, 22),
		calendar.NewDate(2024, 3, 29),
	}, got)
}

func TestControlCard_ControlDatesWindowAndMissingPeriod(t *testing.T) {
	dl := day(2024, 5, 1)
	p := PeriodMonthly
	c := &ControlCard{IssuedOn: day(2024, 1, 15), ExecutionDeadline: &dl, ExecutionPeriodType: &p}

	got := c.ControlDates(calendar.NewDate(2024, 3, 1), calendar.NewDate(2024, 3, 31))
	assert.Equal(t, []calendar.Date{calendar.NewDate(2024, 3, 15)}, got)

	c.ExecutionPeriodType = nil
	assert.Empty(t, c.ControlDates(calendar.NewDate(2024, 1, 1), calendar.NewDate(2024, 12, 31)))
}

func TestCardEvent(t *testing.T) {
	dl := day(2024, 2, 2)
	c := &ControlCard{ID: "c1", CardNumber: 3, Year: 2024, Summary: "x", IssuedOn: day(2024, 1, 30), ExecutionDeadline: &dl}
	e := CardEvent(c)
	assert.Equal(t, "c1", e.EventID())
	assert.Equal(t, SourceCard, e.Source)
	assert.Equal(t, calendar.NewDate(2024, 1, 30), e.StartDate())
	assert.Equal(t, calendar.NewDate(2024, 2, 2), e.EndDate())

	idx := calendar.BuildIndex([]CalendarEvent{e})
	assert.Len(t, idx, 4)
}

func TestPeriodType_Valid(t *testing.T) {
	assert.True(t, PeriodDaily.Valid())
	assert.False(t, PeriodType("yearly").Valid())
	assert.Equal(t, "Еженедельно", PeriodLabels[PeriodWeekly])
}

func TestCoalesceHelpers(t *testing.T) {
	assert.Equal(t, "b", CoalesceStr("", "b", "c"))
	assert.Nil(t, OptionalStr(""))
	assert.Equal(t, "x", *OptionalStr("x"))
	assert.Equal(t, "dflt", StrFromPtrWithDefault("dflt", nil, nil))
	v := "v"
	assert.Equal(t, "v", StrFromPtrWithDefault("dflt", nil, &v))
}
