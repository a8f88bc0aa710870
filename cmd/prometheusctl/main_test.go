package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/internal/api/app"
	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/pkg/cryptox"
	"github.com/prometheusfi/prometheus/pkg/idx"
	"github.com/prometheusfi/prometheus/pkg/mq"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "prometheusctl")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func run(t *testing.T, cfg app.Config, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return strings.TrimSpace(out.String()), err
}

func TestCommands(t *testing.T) {
	t.Parallel()

	cfg := app.Config{DatabaseFile: filepath.Join(t.TempDir(), "ctl.db")}

	out, err := run(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	code, err := run(t, cfg, "invite", "create", "Jane@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	t.Run("the printed code registers", func(t *testing.T) {
		st, err := (&options{cfg: cfg, dbFile: cfg.DatabaseFile}).openStore()
		require.NoError(t, err)
		defer st.Close()

		auth := &service.AuthService{Store: st, Publisher: mq.Noop{}}
		ok, err := auth.VerifyInvite(context.Background(), code)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("operator actions need a registered member", func(t *testing.T) {
		_, err := run(t, cfg, "user", "feature", "jane@example.com")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := run(t, cfg, "user", "role", "jane@example.com", "admin")
		require.ErrorIs(t, err, service.ErrInvalidRole)
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := run(t, cfg, "invite", "create")
		require.Error(t, err)
	})
}

func TestUserCommands(t *testing.T) {
	t.Parallel()

	cfg := app.Config{DatabaseFile: filepath.Join(t.TempDir(), "ctl.db")}
	opts := &options{cfg: cfg, dbFile: cfg.DatabaseFile}

	st, err := opts.openStore()
	require.NoError(t, err)
	hash, err := cryptox.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, st.Users().CreateUser(context.Background(), domain.User{
		ID: idx.New().String(), Email: "max@example.com", PasswordHash: hash,
		FirstName: "Max", LastName: "Planck", Role: domain.RoleUser, Accreditation: domain.AccreditationNone,
	}))
	require.NoError(t, st.Close())

	out, err := run(t, cfg, "user", "feature", "max@example.com")
	require.NoError(t, err)
	assert.Equal(t, "max@example.com featured=true", out)

	out, err = run(t, cfg, "user", "role", "max@example.com", "professional")
	require.NoError(t, err)
	assert.Equal(t, "max@example.com role=professional", out)

	st, err = opts.openStore()
	require.NoError(t, err)
	defer st.Close()

	ref, err := st.Users().GetUserByEmail(context.Background(), "max@example.com")
	require.NoError(t, err)
	u, ok := ref.Full()
	require.True(t, ok)
	assert.True(t, u.Featured)
	assert.Equal(t, domain.RoleProfessional, u.Role)

	out, err = run(t, cfg, "user", "feature", "--off", "max@example.com")
	require.NoError(t, err)
	assert.Equal(t, "max@example.com featured=false", out)
}
