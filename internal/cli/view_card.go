package cli

import (
	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// cardView shows every field of a card in a scrollable viewport.
type cardView struct {
	state *SharedState
	card  *domain.ControlCard
	vp    viewport.Model
}

func newCardView(state *SharedState, c *domain.ControlCard) *cardView {
	vp := viewport.New(max(state.Width, 40), state.ContentHeight())
	vp.SetContent(formatter.FormatCard(c, state.Today()))
	return &cardView{state: state, card: c, vp: vp}
}

func (v *cardView) Init() tea.Cmd { return nil }

func (v *cardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		v.vp.Width = size.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *cardView) View() string  { return v.vp.View() }
func (v *cardView) ID() ViewID    { return ViewCard }
func (v *cardView) Title() string { return v.card.DisplayNumber() }
func (v *cardView) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "прокрутка"))}
}
