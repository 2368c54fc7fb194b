package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboost-backend/internal/features/account/models"
	"postboost-backend/internal/features/account/repository/memory"
)

func newService(t *testing.T) AccountService {
	t.Helper()

	// nil auth client: the hosted auth subsystem is not exercised here.
	return NewAccountService(memory.NewMemoryRepository(), nil, nil)
}

func TestGetOrCreate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	account, err := svc.GetOrCreate(ctx, "tg:12345", "alice", "https://cdn.example/a.png")
	require.NoError(t, err)
	assert.Equal(t, "tg:12345", account.ID)
	assert.Equal(t, models.RoleUser, account.Role)
	assert.Equal(t, models.StatusActive, account.Status)
	assert.Equal(t, "alice", account.DisplayName)
	assert.Zero(t, account.BalanceCents)

	// Second call returns the same profile, not a fresh one.
	again, err := svc.GetOrCreate(ctx, "tg:12345", "alice", "")
	require.NoError(t, err)
	assert.Equal(t, account.CreatedAt, again.CreatedAt)
}

func TestGetOrCreateUpdatesDisplayName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "tg:1", "old-name", "")
	require.NoError(t, err)

	account, err := svc.GetOrCreate(ctx, "tg:1", "new-name", "")
	require.NoError(t, err)
	assert.Equal(t, "new-name", account.DisplayName)
}

func TestGetAccountNotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSignUpWithoutAuthBackend(t *testing.T) {
	svc := newService(t)

	_, err := svc.SignUp(context.Background(), "a@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAuthDisabled)

	_, err = svc.SignIn(context.Background(), "a@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestAdminUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "tg:1", "alice", "")
	require.NoError(t, err)

	role := models.RoleAdmin
	status := models.StatusBanned
	account, err := svc.AdminUpdate(ctx, "tg:1", models.AccountPatch{Role: &role, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, account.Role)
	assert.Equal(t, models.StatusBanned, account.Status)
}

func TestAdminUpdateRejectsUnknownValues(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "tg:1", "alice", "")
	require.NoError(t, err)

	bad := "superuser"
	_, err = svc.AdminUpdate(ctx, "tg:1", models.AccountPatch{Role: &bad})
	assert.Error(t, err)

	badStatus := "frozen"
	_, err = svc.AdminUpdate(ctx, "tg:1", models.AccountPatch{Status: &badStatus})
	assert.Error(t, err)
}

func TestAdminUpdateNotFound(t *testing.T) {
	svc := newService(t)

	name := "ghost"
	_, err := svc.AdminUpdate(context.Background(), "missing", models.AccountPatch{DisplayName: &name})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
