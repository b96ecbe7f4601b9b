package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, adminTok := env.login(t, "admin", domain.RoleAdmin)
	_, ctrlTok := env.login(t, "ctrl", domain.RoleController)
	_, userTok := env.login(t, "exec", domain.RoleUser)

	all, err := env.userSvc.List(ctx, adminTok)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = env.userSvc.List(ctx, ctrlTok)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	executors, err := env.userSvc.ListExecutors(ctx, ctrlTok)
	require.NoError(t, err)
	require.Len(t, executors, 1)
	assert.Equal(t, "exec", executors[0].Username)

	controllers, err := env.userSvc.ListControllers(ctx, adminTok)
	require.NoError(t, err)
	require.Len(t, controllers, 1)
	assert.Equal(t, "ctrl", controllers[0].Username)

	_, err = env.userSvc.ListControllers(ctx, userTok)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUserService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, adminTok := env.login(t, "admin", domain.RoleAdmin)
	u, _ := env.login(t, "old", domain.RoleUser)
	env.login(t, "taken", domain.RoleUser)

	updated, err := env.userSvc.Update(ctx, adminTok, u.ID, "new", domain.RoleController)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Username)
	assert.Equal(t, domain.RoleController, updated.Role)

	// Keeping the same name is not a conflict.
	_, err = env.userSvc.Update(ctx, adminTok, u.ID, "new", domain.RoleUser)
	require.NoError(t, err)

	_, err = env.userSvc.Update(ctx, adminTok, u.ID, "taken", domain.RoleUser)
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = env.userSvc.Update(ctx, adminTok, "missing", "x", domain.RoleUser)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.userSvc.Update(ctx, adminTok, u.ID, "  ", domain.RoleUser)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_DeleteAndChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin, adminTok := env.login(t, "admin", domain.RoleAdmin)
	u, userTok := env.login(t, "exec", domain.RoleUser)

	require.NoError(t, env.userSvc.ChangePassword(ctx, adminTok, u.ID, "brand-new"))
	_, err := env.auth.Login(ctx, "exec", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "exec", "brand-new")
	require.NoError(t, err)

	assert.ErrorIs(t, env.userSvc.ChangePassword(ctx, adminTok, u.ID, "short"), ErrInvalidInput)
	assert.ErrorIs(t, env.userSvc.ChangePassword(ctx, userTok, u.ID, "whatever1"), ErrPermissionDenied)

	assert.ErrorIs(t, env.userSvc.Delete(ctx, adminTok, admin.ID), ErrInvalidInput)
	require.NoError(t, env.userSvc.Delete(ctx, adminTok, u.ID))
	assert.ErrorIs(t, env.userSvc.Delete(ctx, adminTok, u.ID), repository.ErrNotFound)
}
