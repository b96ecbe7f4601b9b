package cli

import (
	"testing"

	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to appModel internals that
// the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for token (empty for the login form),
// sets a terminal size and drains Init.
func NewTestDriver(t *testing.T, app *App, token string, extra ...domain.CalendarEvent) *TestDriver {
	t.Helper()
	m := newAppModel(app, token, extra)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view, or -1 for none.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	if v := m.activeView(); v != nil {
		return v.ID()
	}
	return ViewID(-1)
}

func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Calendar returns the calendar view, failing the test when it is not on top.
func (d *TestDriver) Calendar() *calendarView {
	d.T.Helper()
	m := d.appModel()
	v, ok := m.activeView().(*calendarView)
	if !ok {
		d.T.Fatalf("active view is %v, not the calendar", d.ActiveViewID())
	}
	return v
}
