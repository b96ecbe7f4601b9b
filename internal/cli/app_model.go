package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea Model for the TUI. It owns a stack of
// views; the top one receives input.
type appModel struct {
	state     *SharedState
	viewStack []View
	help      help.Model
	quitting  bool

	status    string
	statusErr bool
}

// newAppModel opens the calendar directly when token is still valid and the
// login form otherwise.
func newAppModel(app *App, token string, extra []domain.CalendarEvent) appModel {
	state := &SharedState{App: app, Extra: extra}
	if token != "" {
		if u, err := app.Auth.CurrentUser(context.Background(), token); err == nil {
			state.Token = token
			state.User = u
		}
	}

	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = formatter.StyleFg
	h.Styles.ShortDesc = formatter.StyleDim

	m := appModel{state: state, help: h}
	if state.User != nil {
		m.viewStack = []View{newCalendarView(state)}
	} else {
		m.viewStack = []View{newLoginView(state)}
	}
	return m
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) forward(msg tea.Msg) tea.Cmd {
	v := m.activeView()
	if v == nil {
		return nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return cmd
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		return m, m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case replaceViewMsg:
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case refreshViewMsg:
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case statusMsg:
		m.status = msg.text
		m.statusErr = msg.err
		return m, nil
	}

	return m, m.forward(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	m.status = ""
	m.statusErr = false

	if viewCapturesInput(m.activeView()) {
		return m, m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	return m, m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height so the alt-screen renderer leaves no stale lines.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	header := formatter.StylePurple.Render("cardcal")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	if u := m.state.User; u != nil {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(u.Username) +
			formatter.Dim(" · ") + formatter.RoleBadge(u.Role) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))

	if m.status != "" {
		if m.statusErr {
			return sep + "\n" + formatter.StyleRed.Render(m.status)
		}
		return sep + "\n" + m.status
	}

	var bindings []key.Binding
	if v := m.activeView(); v != nil {
		bindings = append(bindings, v.ShortHelp()...)
		if len(m.viewStack) > 1 && !viewCapturesInput(v) {
			bindings = append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "назад")))
		}
		if !viewCapturesInput(v) {
			bindings = append(bindings, key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "выход")))
		}
	}
	return sep + "\n" + m.help.ShortHelpView(bindings)
}

// runTUI starts the full-screen interface and blocks until it exits.
func runTUI(ctx context.Context, app *App, token string, extra []domain.CalendarEvent) error {
	if app.Settings != nil {
		formatter.ApplyTheme(string(app.Settings.Theme))
	}
	p := tea.NewProgram(newAppModel(app, token, extra), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
