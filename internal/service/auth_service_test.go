package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizenportal/internal/domains"
	"citizenportal/internal/storage"
	"citizenportal/internal/storage/memory"
	"citizenportal/internal/tokens"
)

func newAuthService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc := NewAuthService(st, tokens.NewIssuer("test-secret", time.Minute, time.Hour))
	_, err := svc.CreateAdmin(context.Background(), domains.AdminCreate{
		FullName: "Portal Admin",
		Email:    "admin@example.gov",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return svc, st
}

func TestLoginAndMe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	access, refresh, err := svc.Login(ctx, " ADMIN@example.gov ", "correct horse")
	require.NoError(t, err)

	me, err := svc.Me(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "Portal Admin", me.FullName)

	_, err = svc.Me(ctx, refresh)
	assert.ErrorIs(t, err, ErrTokenIncorrect)

	access2, _, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	_, err = svc.Me(ctx, access2)
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, access)
	assert.ErrorIs(t, err, ErrTokenIncorrect)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, st := newAuthService(t)

	_, _, err := svc.Login(ctx, "admin@example.gov", "wrong")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
	_, _, err = svc.Login(ctx, "nobody@example.gov", "correct horse")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	access, _, err := svc.Login(ctx, "admin@example.gov", "correct horse")
	require.NoError(t, err)

	require.NoError(t, st.SetAdminDisabled(ctx, "admin@example.gov", true))
	_, _, err = svc.Login(ctx, "admin@example.gov", "correct horse")
	assert.ErrorIs(t, err, ErrAdminDisabled)
	_, err = svc.Me(ctx, access)
	assert.ErrorIs(t, err, ErrAdminDisabled)
}

func TestCreateAdminRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.CreateAdmin(context.Background(), domains.AdminCreate{
		FullName: "Other",
		Email:    "Admin@Example.gov",
		Password: "another password",
	})
	assert.ErrorIs(t, err, storage.ErrAdminExists)
}
