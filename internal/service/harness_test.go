package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/db"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
	"github.com/alexanderramin/cardcal/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against one in-memory database and a clock
// frozen at 2024-03-15 10:00 UTC.
type testEnv struct {
	db     *sql.DB
	clock  *calendar.FixedClock
	tokens *auth.TokenIssuer

	users repository.UserRepo
	cards repository.ControlCardRepo
	seq   repository.CardSequenceRepo

	auth      AuthService
	userSvc   UserService
	cardSvc   CardService
	calendar  CalendarService
	reminders ReminderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := &calendar.FixedClock{FixedNow: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour, clock)
	users := repository.NewSQLiteUserRepo(database)
	cards := repository.NewSQLiteControlCardRepo(database)
	seq := repository.NewSQLiteCardSequenceRepo(database)
	uow := testutil.NewTestUoW(database)

	return &testEnv{
		db:        database,
		clock:     clock,
		tokens:    tokens,
		users:     users,
		cards:     cards,
		seq:       seq,
		auth:      NewAuthService(users, tokens, clock),
		userSvc:   NewUserService(users, tokens),
		cardSvc:   NewCardService(cards, users, seq, uow, tokens, clock),
		calendar:  NewCalendarService(cards, users, tokens, CalendarOptions{WeekStart: time.Monday, Language: calendar.LangRU, Clock: clock}),
		reminders: NewReminderService(cards, users, tokens),
	}
}

func (e *testEnv) withUoW(uow db.UnitOfWork) CardService {
	return NewCardService(e.cards, e.users, e.seq, uow, e.tokens, e.clock)
}

// login creates a user with role and returns it with a valid token.
func (e *testEnv) login(t *testing.T, username string, role domain.Role) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()
	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)
	u := testutil.NewTestUser(username, testutil.WithRole(role), testutil.WithPasswordHash(hash))
	require.NoError(t, e.users.Create(ctx, u))
	sess, err := e.auth.Login(ctx, username, "password1")
	require.NoError(t, err)
	return u, sess.Token
}

func day(y int, m time.Month, d int) *time.Time {
	t := testutil.Day(y, m, d)
	return &t
}

func baseInput(executor *domain.User) CardInput {
	return CardInput{
		ExecutorUserID:    executor.ID,
		Reporter:          "Петров",
		Summary:           "Подготовить отчёт",
		DocumentReference: "Приказ №5",
	}
}
