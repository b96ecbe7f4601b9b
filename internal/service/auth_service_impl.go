package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
	"github.com/google/uuid"
)

type authService struct {
	authorizer
	clock    calendar.Clock
	observer UseCaseObserver
}

func NewAuthService(
	users repository.UserRepo,
	tokens *auth.TokenIssuer,
	clock calendar.Clock,
	observers ...UseCaseObserver,
) AuthService {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &authService{
		authorizer: authorizer{tokens: tokens, users: users},
		clock:      clock,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *authService) HasAnyUsers(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *authService) InitAdmin(ctx context.Context, username, password string) (u *domain.User, err error) {
	fields := map[string]any{"username": username}
	defer observe(ctx, s.observer, "init-admin", time.Now(), fields, &err)

	return s.createUser(ctx, username, password, domain.RoleAdmin)
}

func (s *authService) Register(ctx context.Context, token, username, password string, role domain.Role) (u *domain.User, err error) {
	fields := map[string]any{"username": username, "role": string(role)}
	defer observe(ctx, s.observer, "register-user", time.Now(), fields, &err)

	if _, err = s.require(ctx, token, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalidInput("unknown role %q", role)
	}
	return s.createUser(ctx, username, password, role)
}

func (s *authService) createUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidInput("username is required")
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("user %q: %w", username, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, invalidInput("%v", err)
		}
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (sess *Session, err error) {
	fields := map[string]any{"username": username}
	defer observe(ctx, s.observer, "login", time.Now(), fields, &err)

	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.resolve(ctx, token)
}
