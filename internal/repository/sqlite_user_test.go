package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("ivanov", testutil.WithRole(domain.RoleController))
	require.NoError(t, repo.Create(ctx, u))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ivanov", fetched.Username)
	assert.Equal(t, domain.RoleController, fetched.Role)
	assert.Equal(t, u.PasswordHash, fetched.PasswordHash)
	assert.WithinDuration(t, u.CreatedAt, fetched.CreatedAt, time.Millisecond)

	byName, err := repo.GetByUsername(ctx, "ivanov")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByUsername(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("admin")))
	err := repo.Create(ctx, testutil.NewTestUser("admin"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRepo_List_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("first", testutil.WithCreatedAt(base))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("second", testutil.WithCreatedAt(base.Add(500*time.Millisecond)))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("third", testutil.WithCreatedAt(base.Add(time.Second)))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Username)
	assert.Equal(t, "second", list[1].Username)
	assert.Equal(t, "first", list[2].Username)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUserRepo_ListByRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("boss", testutil.WithRole(domain.RoleAdmin))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("petrov")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("abramov")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("checker", testutil.WithRole(domain.RoleController))))

	users, err := repo.ListByRole(ctx, domain.RoleUser)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "abramov", users[0].Username)
	assert.Equal(t, "petrov", users[1].Username)
}

func TestUserRepo_UpdateAndPassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("old")
	other := testutil.NewTestUser("taken")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, other))

	u.Username = "new"
	u.Role = domain.RoleController
	require.NoError(t, repo.Update(ctx, u))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "hash2"))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", fetched.Username)
	assert.Equal(t, domain.RoleController, fetched.Role)
	assert.Equal(t, "hash2", fetched.PasswordHash)

	u.Username = "taken"
	assert.ErrorIs(t, repo.Update(ctx, u), ErrConflict)

	missing := testutil.NewTestUser("ghost")
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, missing.ID, "x"), ErrNotFound)
}

func TestUserRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("gone")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err := repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), ErrNotFound)
}
