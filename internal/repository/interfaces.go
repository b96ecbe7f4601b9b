package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/cardcal/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type ControlCardRepo interface {
	Create(ctx context.Context, c *domain.ControlCard) error
	GetByID(ctx context.Context, id string) (*domain.ControlCard, error)
	List(ctx context.Context) ([]*domain.ControlCard, error)
	ListByExecutor(ctx context.Context, executorUserID string) ([]*domain.ControlCard, error)
	ListByAuthor(ctx context.Context, authorUserID string) ([]*domain.ControlCard, error)
	// ListDueBetween returns cards whose effective deadline falls in [from, to].
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.ControlCard, error)
	Update(ctx context.Context, c *domain.ControlCard) error
	Delete(ctx context.Context, id string) error
}

type CardSequenceRepo interface {
	NextCardNumber(ctx context.Context, year int) (int, error)
	Peek(ctx context.Context, year int) (int, error)
	Reserve(ctx context.Context, year, number int) error
}
