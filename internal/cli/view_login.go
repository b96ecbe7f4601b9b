package cli

import (
	"context"
	"errors"

	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type loginResultMsg struct {
	session *service.Session
	err     error
}

// loginView asks for credentials and replaces itself with the calendar once
// they are accepted.
type loginView struct {
	state    *SharedState
	form     *huh.Form
	username string
	password string
	notice   string
	busy     bool
}

func newLoginView(state *SharedState) *loginView {
	v := &loginView{state: state}
	if ok, err := state.App.Auth.HasAnyUsers(context.Background()); err == nil && !ok {
		v.notice = "Пользователей нет. Создайте администратора: cardcal init-admin --password ..."
	}
	v.form = v.buildForm()
	return v
}

func (v *loginView) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Имя пользователя").
				Value(&v.username).
				Validate(requireNonEmpty),
			huh.NewInput().
				Title("Пароль").
				EchoMode(huh.EchoModePassword).
				Value(&v.password).
				Validate(requireNonEmpty),
		),
	).WithTheme(cardcalHuhTheme()).WithShowHelp(false)
}

func (v *loginView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		v.busy = false
		if res.err != nil {
			v.notice = loginErrorText(res.err)
			v.password = ""
			v.form = v.buildForm()
			return v, v.form.Init()
		}
		v.state.SignIn(res.session)
		return v, replaceView(newCalendarView(v.state))
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted && !v.busy {
		v.busy = true
		return v, tea.Batch(cmd, v.submit())
	}
	return v, cmd
}

func (v *loginView) submit() tea.Cmd {
	auth := v.state.App.Auth
	username, password := v.username, v.password
	return func() tea.Msg {
		sess, err := auth.Login(context.Background(), username, password)
		return loginResultMsg{session: sess, err: err}
	}
}

func loginErrorText(err error) string {
	if errors.Is(err, service.ErrInvalidCredentials) {
		return "Неверное имя пользователя или пароль"
	}
	return err.Error()
}

func (v *loginView) View() string {
	body := formatter.Header("Вход") + "\n\n" + v.form.View()
	if v.notice != "" {
		body += "\n" + formatter.StyleRed.Render(v.notice)
	}
	return body
}

func (v *loginView) ID() ViewID    { return ViewLogin }
func (v *loginView) Title() string { return "Вход" }
func (v *loginView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "далее")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "выход")),
	}
}
