package cli

import (
	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/service"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Signed-in session; empty until login succeeds.
	Token string
	User  *domain.User

	// Entries from --ics files shown next to the cards.
	Extra []domain.CalendarEvent

	// Terminal dimensions
	Width  int
	Height int
}

// SignIn stores a successful login.
func (s *SharedState) SignIn(sess *service.Session) {
	s.Token = sess.Token
	s.User = sess.User
}

// Today is the current day in the configured timezone.
func (s *SharedState) Today() calendar.Date {
	return s.App.today()
}

// Clock reads the app clock in the configured timezone.
func (s *SharedState) Clock() calendar.Clock {
	return calendar.ZonedClock{Clock: s.App.clock(), Location: s.App.location()}
}

// ContentHeight returns the height left for view content after the header
// (title + separator) and the status bar (separator + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-4, 1)
}
