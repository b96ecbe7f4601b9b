package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
)

type userService struct {
	authorizer
	observer UseCaseObserver
}

func NewUserService(users repository.UserRepo, tokens *auth.TokenIssuer, observers ...UseCaseObserver) UserService {
	return &userService{
		authorizer: authorizer{tokens: tokens, users: users},
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *userService) List(ctx context.Context, token string) ([]*domain.User, error) {
	if _, err := s.require(ctx, token, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *userService) ListExecutors(ctx context.Context, token string) ([]*domain.User, error) {
	if _, err := s.require(ctx, token, domain.RoleAdmin, domain.RoleController); err != nil {
		return nil, err
	}
	return s.users.ListByRole(ctx, domain.RoleUser)
}

func (s *userService) ListControllers(ctx context.Context, token string) ([]*domain.User, error) {
	if _, err := s.require(ctx, token, domain.RoleAdmin, domain.RoleController); err != nil {
		return nil, err
	}
	return s.users.ListByRole(ctx, domain.RoleController)
}

func (s *userService) Update(ctx context.Context, token, id, username string, role domain.Role) (u *domain.User, err error) {
	fields := map[string]any{"user_id": id, "role": string(role)}
	defer observe(ctx, s.observer, "update-user", time.Now(), fields, &err)

	if _, err = s.require(ctx, token, domain.RoleAdmin); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidInput("username is required")
	}
	if !role.Valid() {
		return nil, invalidInput("unknown role %q", role)
	}

	u, err = s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if other, lookupErr := s.users.GetByUsername(ctx, username); lookupErr == nil && other.ID != u.ID {
		return nil, fmt.Errorf("user %q: %w", username, repository.ErrConflict)
	} else if lookupErr != nil && !errors.Is(lookupErr, repository.ErrNotFound) {
		return nil, lookupErr
	}

	u.Username = username
	u.Role = role
	if err = s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, token, id string) (err error) {
	fields := map[string]any{"user_id": id}
	defer observe(ctx, s.observer, "delete-user", time.Now(), fields, &err)

	caller, err := s.require(ctx, token, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if caller.ID == id {
		return invalidInput("you cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, token, id, newPassword string) (err error) {
	fields := map[string]any{"user_id": id}
	defer observe(ctx, s.observer, "change-password", time.Now(), fields, &err)

	if _, err = s.require(ctx, token, domain.RoleAdmin); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return invalidInput("%v", err)
		}
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}
