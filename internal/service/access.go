package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
)

// authorizer resolves session tokens to stored users.
type authorizer struct {
	tokens *auth.TokenIssuer
	users  repository.UserRepo
}

func (a authorizer) resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	u, err := a.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrNotAuthenticated)
		}
		return nil, err
	}
	return u, nil
}

// require resolves token and checks the caller holds one of roles.
func (a authorizer) require(ctx context.Context, token string, roles ...domain.Role) (*domain.User, error) {
	u, err := a.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	return nil, permissionDenied("role %s may not perform this action", u.Role)
}

// canSee reports whether viewer may read card.
func canSee(viewer *domain.User, card *domain.ControlCard) bool {
	if viewer.Role.CanManageCards() {
		return true
	}
	return card.ExecutorUserID != nil && *card.ExecutorUserID == viewer.ID
}

// visibleCards lists the cards viewer may read.
func visibleCards(ctx context.Context, cards repository.ControlCardRepo, viewer *domain.User) ([]*domain.ControlCard, error) {
	if viewer.Role.CanManageCards() {
		return cards.List(ctx)
	}
	return cards.ListByExecutor(ctx, viewer.ID)
}
