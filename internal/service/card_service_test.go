package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
	"github.com/alexanderramin/cardcal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardService_CreateAllocatesNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ctrl, tok := env.login(t, "ctrl", domain.RoleController)
	exec, _ := env.login(t, "exec", domain.RoleUser)

	next, err := env.cardSvc.NextCardNumber(ctx, tok, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	first, err := env.cardSvc.Create(ctx, tok, baseInput(exec))
	require.NoError(t, err)
	assert.Equal(t, 1, first.CardNumber)
	assert.Equal(t, 2024, first.Year, "year follows the issue date")
	assert.Equal(t, testutil.Day(2024, 3, 15), first.IssuedOn, "issue date defaults to today")
	assert.Equal(t, "exec", first.Executor)
	assert.Equal(t, ctrl.ID, *first.AuthorUserID)

	second, err := env.cardSvc.Create(ctx, tok, baseInput(exec))
	require.NoError(t, err)
	assert.Equal(t, 2, second.CardNumber)

	next, err = env.cardSvc.NextCardNumber(ctx, tok, 2024)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestCardService_CreateWithExplicitNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.login(t, "admin", domain.RoleAdmin)
	exec, _ := env.login(t, "exec", domain.RoleUser)

	in := baseInput(exec)
	in.CardNumber = 40
	in.Year = 2023
	card, err := env.cardSvc.Create(ctx, tok, in)
	require.NoError(t, err)
	assert.Equal(t, "№40/2023", card.DisplayNumber())

	_, err = env.cardSvc.Create(ctx, tok, in)
	assert.ErrorIs(t, err, repository.ErrConflict)

	in.CardNumber = 0
	auto, err := env.cardSvc.Create(ctx, tok, in)
	require.NoError(t, err)
	assert.Equal(t, 41, auto.CardNumber)
}

func TestCardService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.login(t, "admin", domain.RoleAdmin)
	exec, _ := env.login(t, "exec", domain.RoleUser)
	ctrl, _ := env.login(t, "ctrl", domain.RoleController)
	yearly := domain.PeriodType("yearly")

	tests := []struct {
		name   string
		mutate func(*CardInput)
	}{
		{"missing summary", func(in *CardInput) { in.Summary = " " }},
		{"missing reporter", func(in *CardInput) { in.Reporter = "" }},
		{"missing executor", func(in *CardInput) { in.ExecutorUserID = "" }},
		{"unknown executor", func(in *CardInput) { in.ExecutorUserID = "nobody" }},
		{"executor is a controller", func(in *CardInput) { in.ExecutorUserID = ctrl.ID }},
		{"controller has user role", func(in *CardInput) { in.ControllerUserID = exec.ID }},
		{"deadline before issue", func(in *CardInput) {
			in.IssuedOn = day(2024, 3, 10)
			in.ExecutionDeadline = day(2024, 3, 9)
		}},
		{"extended before execution", func(in *CardInput) {
			in.ExecutionDeadline = day(2024, 4, 10)
			in.ExtendedDeadline = day(2024, 4, 1)
		}},
		{"unknown period", func(in *CardInput) { in.ExecutionPeriodType = &yearly }},
		{"negative number", func(in *CardInput) { in.CardNumber = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput(exec)
			tt.mutate(&in)
			_, err := env.cardSvc.Create(ctx, tok, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	cards, err := env.cards.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCardService_ControllerNameFromUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.login(t, "admin", domain.RoleAdmin)
	exec, _ := env.login(t, "exec", domain.RoleUser)
	ctrl, _ := env.login(t, "ctrl", domain.RoleController)

	in := baseInput(exec)
	in.ControllerUserID = ctrl.ID
	card, err := env.cardSvc.Create(ctx, tok, in)
	require.NoError(t, err)
	require.NotNil(t, card.Controller)
	assert.Equal(t, "ctrl", *card.Controller)
	assert.Equal(t, ctrl.ID, *card.ControllerUserID)
}

func TestCardService_UserCannotWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	exec, userTok := env.login(t, "exec", domain.RoleUser)
	_, adminTok := env.login(t, "admin", domain.RoleAdmin)

	_, err := env.cardSvc.Create(ctx, userTok, baseInput(exec))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	card, err := env.cardSvc.Create(ctx, adminTok, baseInput(exec))
	require.NoError(t, err)

	_, err = env.cardSvc.Update(ctx, userTok, card.ID, baseInput(exec))
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, env.cardSvc.Delete(ctx, userTok, card.ID), ErrPermissionDenied)
	_, err = env.cardSvc.NextCardNumber(ctx, userTok, 2024)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCardService_UserSeesOwnCardsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, adminTok := env.login(t, "admin", domain.RoleAdmin)
	alice, aliceTok := env.login(t, "alice", domain.RoleUser)
	bob, _ := env.login(t, "bob", domain.RoleUser)

	mine, err := env.cardSvc.Create(ctx, adminTok, baseInput(alice))
	require.NoError(t, err)
	theirs, err := env.cardSvc.Create(ctx, adminTok, baseInput(bob))
	require.NoError(t, err)

	list, err := env.cardSvc.List(ctx, aliceTok)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = env.cardSvc.Get(ctx, aliceTok, mine.ID)
	require.NoError(t, err)
	_, err = env.cardSvc.Get(ctx, aliceTok, theirs.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	all, err := env.cardSvc.List(ctx, adminTok)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCardService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.login(t, "ctrl", domain.RoleController)
	exec, _ := env.login(t, "exec", domain.RoleUser)

	in := baseInput(exec)
	in.IssuedOn = day(2024, 3, 1)
	in.ExecutionDeadline = day(2024, 3, 20)
	card, err := env.cardSvc.Create(ctx, tok, in)
	require.NoError(t, err)

	in.IssuedOn = nil
	in.ExtendedDeadline = day(2024, 4, 5)
	in.Resolution = "Продлить"
	updated, err := env.cardSvc.Update(ctx, tok, card.ID, in)
	require.NoError(t, err)
	assert.Equal(t, card.CardNumber, updated.CardNumber, "number is kept when not given")
	assert.Equal(t, testutil.Day(2024, 3, 1), updated.IssuedOn, "issue date is kept when not given")
	assert.Equal(t, testutil.Day(2024, 4, 5), *updated.EffectiveDeadline())

	stored, err := env.cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Продлить", *stored.Resolution)

	_, err = env.cardSvc.Update(ctx, tok, "missing", in)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCardService_UpdateMovesYear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.login(t, "ctrl", domain.RoleController)
	exec, _ := env.login(t, "exec", domain.RoleUser)

	card, err := env.cardSvc.Create(ctx, tok, baseInput(exec))
	require.NoError(t, err)

	in := baseInput(exec)
	in.Year = 2025
	moved, err := env.cardSvc.Update(ctx, tok, card.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2025, moved.Year)
	assert.Equal(t, 1, moved.CardNumber, "a new number is drawn in the new year")
}

func TestCardService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.login(t, "admin", domain.RoleAdmin)
	exec, _ := env.login(t, "exec", domain.RoleUser)

	card, err := env.cardSvc.Create(ctx, tok, baseInput(exec))
	require.NoError(t, err)
	require.NoError(t, env.cardSvc.Delete(ctx, tok, card.ID))
	_, err = env.cardSvc.Get(ctx, tok, card.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCardService_CreateRollsBackNumberOnInsertFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.login(t, "admin", domain.RoleAdmin)
	exec, _ := env.login(t, "exec", domain.RoleUser)

	// ExecContext #1 seeds the allocator row, #2 inserts the card.
	failing := env.withUoW(&testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected card insert failure"),
	})
	_, err := failing.Create(ctx, tok, baseInput(exec))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected card insert failure")

	cards, err := env.cards.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards, "no card should exist after rollback")

	card, err := env.cardSvc.Create(ctx, tok, baseInput(exec))
	require.NoError(t, err)
	assert.Equal(t, 1, card.CardNumber, "allocated number should be released by the rollback")
}

func TestCardService_ListDue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, adminTok := env.login(t, "admin", domain.RoleAdmin)
	exec1, exec1Tok := env.login(t, "exec1", domain.RoleUser)
	exec2, _ := env.login(t, "exec2", domain.RoleUser)

	in := baseInput(exec1)
	in.ExecutionDeadline = day(2024, time.March, 20)
	_, err := env.cardSvc.Create(ctx, adminTok, in)
	require.NoError(t, err)

	in = baseInput(exec2)
	in.ExecutionDeadline = day(2024, time.March, 18)
	_, err = env.cardSvc.Create(ctx, adminTok, in)
	require.NoError(t, err)

	// Extended past the window.
	in = baseInput(exec1)
	in.ExecutionDeadline = day(2024, time.March, 17)
	in.ExtendedDeadline = day(2024, time.April, 10)
	_, err = env.cardSvc.Create(ctx, adminTok, in)
	require.NoError(t, err)

	from := calendar.NewDate(2024, time.March, 15)
	to := calendar.NewDate(2024, time.March, 31)

	all, err := env.cardSvc.ListDue(ctx, adminTok, from, to)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := env.cardSvc.ListDue(ctx, exec1Tok, from, to)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, exec1.ID, *own[0].ExecutorUserID)

	_, err = env.cardSvc.ListDue(ctx, adminTok, to, from)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCardService_ListAuthored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, adminTok := env.login(t, "admin", domain.RoleAdmin)
	_, ctrlTok := env.login(t, "ctrl", domain.RoleController)
	exec, _ := env.login(t, "exec", domain.RoleUser)

	_, err := env.cardSvc.Create(ctx, adminTok, baseInput(exec))
	require.NoError(t, err)
	mine, err := env.cardSvc.Create(ctx, ctrlTok, baseInput(exec))
	require.NoError(t, err)

	cards, err := env.cardSvc.ListAuthored(ctx, ctrlTok)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, mine.ID, cards[0].ID)
}
