package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func march(d int) calendar.Date { return calendar.NewDate(2024, time.March, d) }

// seedCalendar creates an admin, an executor and one card issued on 12 March
// with a deadline on 14 March.
func seedCalendar(t *testing.T, env *cliEnv) string {
	t.Helper()
	_, adminToken := env.addUser(t, "boss", domain.RoleAdmin)
	executor, _ := env.addUser(t, "ivanov", domain.RoleUser)

	issued := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	_, err := env.app.Cards.Create(context.Background(), adminToken, service.CardInput{
		ExecutorUserID:    executor.ID,
		Reporter:          "Петров",
		Summary:           "Отчёт",
		IssuedOn:          &issued,
		ExecutionDeadline: &deadline,
	})
	require.NoError(t, err)
	return adminToken
}

func TestTUI_StartsOnLoginWithoutToken(t *testing.T) {
	env := testApp(t)
	d := NewTestDriver(t, env.app, "")
	assert.Equal(t, ViewLogin, d.ActiveViewID())
	assert.Contains(t, d.View(), "Вход")
	assert.Contains(t, d.View(), "init-admin", "empty database suggests creating an admin")
}

func TestTUI_InvalidTokenFallsBackToLogin(t *testing.T) {
	env := testApp(t)
	d := NewTestDriver(t, env.app, "garbage")
	assert.Equal(t, ViewLogin, d.ActiveViewID())
}

func TestTUI_LoginViewIgnoresGlobalKeys(t *testing.T) {
	env := testApp(t)
	env.addUser(t, "boss", domain.RoleAdmin)
	d := NewTestDriver(t, env.app, "")

	d.Type("q")
	assert.False(t, d.Quitting, "q is typed into the form")
	assert.Equal(t, ViewLogin, d.ActiveViewID())
}

func TestTUI_LoginResult(t *testing.T) {
	env := testApp(t)
	u, token := env.addUser(t, "boss", domain.RoleAdmin)
	d := NewTestDriver(t, env.app, "")

	d.Send(loginResultMsg{err: service.ErrInvalidCredentials})
	assert.Equal(t, ViewLogin, d.ActiveViewID())
	assert.Contains(t, d.View(), "Неверное имя пользователя или пароль")

	d.Send(loginResultMsg{session: &service.Session{Token: token, User: u}})
	assert.Equal(t, ViewCalendar, d.ActiveViewID())
	assert.Equal(t, token, d.State().Token)
	assert.Equal(t, 1, d.ViewStackLen(), "login is replaced, not stacked")
	assert.Contains(t, d.View(), "boss")
}

func TestTUI_CalendarShowsMonthAndCards(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)

	d := NewTestDriver(t, env.app, token)
	require.Equal(t, ViewCalendar, d.ActiveViewID())
	view := d.View()
	assert.Contains(t, view, "Март 2024")
	assert.Contains(t, view, "№1/2024")
	assert.Contains(t, view, "15.03.2024")
	assert.Equal(t, march(15), d.Calendar().Selected())
}

func TestTUI_CursorStaysInMonth(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)
	d := NewTestDriver(t, env.app, token)

	d.PressRight()
	assert.Equal(t, march(16), d.Calendar().Selected())
	d.PressDown()
	assert.Equal(t, march(23), d.Calendar().Selected())
	d.PressDown()
	d.PressDown()
	assert.Equal(t, march(30), d.Calendar().Selected(), "April 6 is outside the month")
	d.PressKey('k')
	assert.Equal(t, march(23), d.Calendar().Selected())
	d.PressKey('h')
	assert.Equal(t, march(22), d.Calendar().Selected())
}

func TestTUI_MonthNavigation(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)
	d := NewTestDriver(t, env.app, token)

	// Move to 31 March, then one month forward clamps to 30 April.
	for i := 0; i < 16; i++ {
		d.PressRight()
	}
	require.Equal(t, march(31), d.Calendar().Selected())
	d.PressKey(']')
	assert.Equal(t, calendar.NewDate(2024, time.April, 30), d.Calendar().Selected())
	assert.Contains(t, d.View(), "Апрель 2024")
	assert.NotContains(t, d.View(), "№1/2024")

	d.PressKey('p')
	d.PressKey('p')
	assert.Contains(t, d.View(), "Февраль 2024")
	assert.Equal(t, calendar.NewDate(2024, time.February, 29), d.Calendar().Selected())

	d.PressKey('n')
	d.PressKey('n')
	d.PressKey('n')
	assert.Contains(t, d.View(), "Май 2024")

	d.PressKey('t')
	assert.Contains(t, d.View(), "Март 2024")
	assert.Equal(t, march(15), d.Calendar().Selected())
}

func TestTUI_OpenDayAndCard(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)
	d := NewTestDriver(t, env.app, token)

	d.PressEnter()
	assert.Equal(t, ViewDay, d.ActiveViewID())
	assert.Contains(t, d.View(), "Нет записей.")
	d.PressEsc()
	assert.Equal(t, ViewCalendar, d.ActiveViewID())

	d.PressLeft()
	d.PressLeft()
	require.Equal(t, march(13), d.Calendar().Selected())
	d.PressEnter()
	require.Equal(t, ViewDay, d.ActiveViewID())
	assert.Contains(t, d.View(), "№1/2024 Отчёт")

	d.PressEnter()
	require.Equal(t, ViewCard, d.ActiveViewID())
	assert.Contains(t, d.View(), "КАРТОЧКА №1/2024")
	assert.Equal(t, 3, d.ViewStackLen())

	d.PressEsc()
	d.PressEsc()
	assert.Equal(t, ViewCalendar, d.ActiveViewID())
	d.PressEsc()
	assert.Equal(t, ViewCalendar, d.ActiveViewID(), "root view stays")
}

func TestTUI_ExtraEventsShown(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)
	holiday := domain.CalendarEvent{ID: "h", Title: "Праздник", Start: march(8), End: march(8), Source: "ics:holidays"}

	d := NewTestDriver(t, env.app, token, holiday)
	assert.Contains(t, d.View(), "Праздник")
}

func TestTUI_RefreshPicksUpNewCards(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)
	d := NewTestDriver(t, env.app, token)

	executor, err := env.users.GetByUsername(context.Background(), "ivanov")
	require.NoError(t, err)
	_, err = env.app.Cards.Create(context.Background(), token, service.CardInput{
		ExecutorUserID: executor.ID, Reporter: "Петров", Summary: "Новая",
	})
	require.NoError(t, err)

	assert.NotContains(t, d.View(), "№2/2024")
	d.PressKey('r')
	assert.Contains(t, d.View(), "№2/2024")
}

func TestTUI_Quit(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)

	d := NewTestDriver(t, env.app, token)
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d = NewTestDriver(t, env.app, "")
	d.PressCtrlC()
	assert.True(t, d.Quitting)
}

func TestTUI_StatusMessage(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)
	d := NewTestDriver(t, env.app, token)

	d.Send(statusMsg{text: "что-то сломалось", err: true})
	assert.Contains(t, d.View(), "что-то сломалось")
	d.PressRight()
	assert.NotContains(t, d.View(), "что-то сломалось")
}

func TestTUI_WindowResize(t *testing.T) {
	env := testApp(t)
	token := seedCalendar(t, env)
	d := NewTestDriver(t, env.app, token)

	d.Send(tea.WindowSizeMsg{Width: 70, Height: 30})
	assert.Equal(t, 70, d.State().Width)
	assert.Contains(t, d.View(), "Март 2024")
}
