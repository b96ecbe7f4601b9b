package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
)

// Every operation that acts on behalf of a user takes the session token
// returned by AuthService.Login. The user's current role is read from storage,
// so a role change applies to tokens already issued.

type AuthService interface {
	HasAnyUsers(ctx context.Context) (bool, error)
	// InitAdmin creates the first administrator. It fails when a user with
	// that name already exists.
	InitAdmin(ctx context.Context, username, password string) (*domain.User, error)
	Register(ctx context.Context, token, username, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

type UserService interface {
	List(ctx context.Context, token string) ([]*domain.User, error)
	ListExecutors(ctx context.Context, token string) ([]*domain.User, error)
	ListControllers(ctx context.Context, token string) ([]*domain.User, error)
	Update(ctx context.Context, token, id, username string, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, token, id string) error
	ChangePassword(ctx context.Context, token, id, newPassword string) error
}

type CardService interface {
	NextCardNumber(ctx context.Context, token string, year int) (int, error)
	Create(ctx context.Context, token string, in CardInput) (*domain.ControlCard, error)
	Update(ctx context.Context, token, id string, in CardInput) (*domain.ControlCard, error)
	Get(ctx context.Context, token, id string) (*domain.ControlCard, error)
	List(ctx context.Context, token string) ([]*domain.ControlCard, error)
	// ListDue returns the visible cards whose effective deadline falls in
	// [from, to].
	ListDue(ctx context.Context, token string, from, to calendar.Date) ([]*domain.ControlCard, error)
	// ListAuthored returns the cards the caller created.
	ListAuthored(ctx context.Context, token string) ([]*domain.ControlCard, error)
	Delete(ctx context.Context, token, id string) error
}

type CalendarService interface {
	// Events returns the cards visible to the caller as calendar entries,
	// followed by extra.
	Events(ctx context.Context, token string, extra []domain.CalendarEvent) ([]domain.CalendarEvent, error)
	Month(ctx context.Context, token string, month calendar.Date, extra []domain.CalendarEvent) (*MonthView, error)
	Day(ctx context.Context, token string, day calendar.Date, extra []domain.CalendarEvent) ([]domain.CalendarEvent, error)
}

type ReminderService interface {
	Due(ctx context.Context, token string, today calendar.Date) ([]Reminder, error)
	DueForUser(ctx context.Context, userID string, today calendar.Date) ([]Reminder, error)
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  *domain.User
}

// CardInput carries the editable fields of a control card. A zero
// CardNumber asks the service to allocate the next number of Year; a zero
// Year means the year of IssuedOn.
type CardInput struct {
	CardNumber        int
	Year              int
	ExecutorUserID    string
	Reporter          string
	Summary           string
	DocumentReference string

	IssuedOn            *time.Time
	ReturnTo            string
	ExecutionDeadline   *time.Time
	ExecutionPeriodType *domain.PeriodType
	ExtendedDeadline    *time.Time
	Resolution          string
	Department          string
	Controller          string
	ControllerUserID    string
}

// MonthView is one rendered month of the calendar.
type MonthView struct {
	Month          calendar.Date
	Label          string
	WeekdayHeaders [7]string
	Days           []calendar.DayCell[domain.CalendarEvent]
}

type ReminderKind string

const (
	ReminderDueToday    ReminderKind = "due_today"
	ReminderOverdue     ReminderKind = "overdue"
	ReminderControlDate ReminderKind = "control_date"
)

// Reminder flags a card that needs attention on a given day.
type Reminder struct {
	Kind ReminderKind
	Card *domain.ControlCard
	Day  calendar.Date
}
