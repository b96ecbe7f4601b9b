package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/google/uuid"
)

var testCardCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithPasswordHash(h string) UserOption {
	return func(u *domain.User) {
		u.PasswordHash = h
	}
}

func WithCreatedAt(t time.Time) UserOption {
	return func(u *domain.User) {
		u.CreatedAt = t
	}
}

func NewTestUser(username string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Card options
type CardOption func(*domain.ControlCard)

func WithCardNumber(year, number int) CardOption {
	return func(c *domain.ControlCard) {
		c.Year = year
		c.CardNumber = number
	}
}

func WithExecutorUser(u *domain.User) CardOption {
	return func(c *domain.ControlCard) {
		c.ExecutorUserID = &u.ID
		c.Executor = u.Username
	}
}

func WithControllerUser(u *domain.User) CardOption {
	return func(c *domain.ControlCard) {
		c.ControllerUserID = &u.ID
		c.Controller = &u.Username
	}
}

func WithAuthor(u *domain.User) CardOption {
	return func(c *domain.ControlCard) {
		c.AuthorUserID = &u.ID
	}
}

func WithIssuedOn(t time.Time) CardOption {
	return func(c *domain.ControlCard) {
		c.IssuedOn = t
	}
}

func WithDeadline(t time.Time) CardOption {
	return func(c *domain.ControlCard) {
		c.ExecutionDeadline = &t
	}
}

func WithExtendedDeadline(t time.Time) CardOption {
	return func(c *domain.ControlCard) {
		c.ExtendedDeadline = &t
	}
}

func WithPeriod(p domain.PeriodType) CardOption {
	return func(c *domain.ControlCard) {
		c.ExecutionPeriodType = &p
	}
}

func WithDepartment(d string) CardOption {
	return func(c *domain.ControlCard) {
		c.Department = &d
	}
}

// NewTestCard builds a card with a unique number in the current year, issued
// today.
func NewTestCard(summary string, opts ...CardOption) *domain.ControlCard {
	now := time.Now().UTC()
	c := &domain.ControlCard{
		ID:                uuid.New().String(),
		CardNumber:        int(testCardCounter.Add(1)),
		Year:              now.Year(),
		Executor:          "Исполнитель",
		Reporter:          "Докладчик",
		Summary:           summary,
		DocumentReference: fmt.Sprintf("DOC-%s", summary),
		IssuedOn:          Day(now.Year(), now.Month(), now.Day()),
		CreatedAt:         now.Truncate(time.Second),
		UpdatedAt:         now.Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
