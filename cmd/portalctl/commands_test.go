package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizenportal/internal/app"
	"citizenportal/internal/config"
	"citizenportal/internal/storage/memory"
)

func memoryOpener(st *memory.Store) opener {
	return func(context.Context, string) (*app.Stores, *config.Config, error) {
		cfg := &config.Config{Env: config.EnvLocal}
		cfg.JWT.Secret = "test-secret"
		cfg.JWT.AccessTTL = time.Minute
		cfg.JWT.RefreshTTL = time.Hour
		return &app.Stores{Content: st, Tickets: st, Admins: st, Health: st, Close: func() {}}, cfg, nil
	}
}

func execute(t *testing.T, st *memory.Store, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(memoryOpener(st))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAdminCommands(t *testing.T) {
	st := memory.New()

	out, err := execute(t, st, "create-admin", "--name", "Asha Rao", "--email", "asha@example.gov.in", "--password", "longenough")
	require.NoError(t, err)
	assert.Contains(t, out, "<asha@example.gov.in>")

	_, err = execute(t, st, "create-admin", "--name", "Asha Rao", "--email", "asha@example.gov.in", "--password", "longenough")
	assert.Error(t, err)

	_, err = execute(t, st, "create-admin", "--name", "Short", "--email", "short@example.gov.in", "--password", "x")
	assert.ErrorContains(t, err, "password")

	out, err = execute(t, st, "disable-admin", "asha@example.gov.in")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")

	out, err = execute(t, st, "list-admins")
	require.NoError(t, err)
	assert.Contains(t, out, "asha@example.gov.in")
	assert.Contains(t, out, "disabled")

	_, err = execute(t, st, "enable-admin", "asha@example.gov.in")
	require.NoError(t, err)
	admin, err := st.GetAdminByEmail(context.Background(), "asha@example.gov.in")
	require.NoError(t, err)
	assert.True(t, admin.Active())

	_, err = execute(t, st, "disable-admin", "nobody@example.gov.in")
	assert.Error(t, err)
}

func TestSeedCommand(t *testing.T) {
	st := memory.New()
	out, err := execute(t, st, "seed", "--file", "../../fixtures/seed.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "created 5, published 4, tickets 2")

	_, err = execute(t, st, "seed", "--file", "missing.yaml")
	assert.Error(t, err)
}
