package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up4down/up4down-server/internal/auth"
	"github.com/up4down/up4down-server/internal/config"
	apperrors "github.com/up4down/up4down-server/internal/errors"
	"github.com/up4down/up4down-server/internal/sandbox"
	"github.com/up4down/up4down-server/internal/store"
)

func newAdminService(t *testing.T, s store.Store) *AdminService {
	t.Helper()

	key := make([]byte, 32)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	cfg := config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "correct horse battery staple",
	}
	return NewAdminService(s, tokens, sandbox.NewRunner(0), cfg, testLogger())
}

func TestAdminService_BootstrapAndLogin(t *testing.T) {
	s := newTestStore(t)
	svc := newAdminService(t, s)

	require.NoError(t, svc.Bootstrap(context.Background()))

	count, err := s.CountAdminUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Bootstrap is idempotent.
	require.NoError(t, svc.Bootstrap(context.Background()))
	count, err = s.CountAdminUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	token, admin, err := svc.Login(context.Background(), "admin", "correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", admin.Username)
}

func TestAdminService_Login_BadCredentials(t *testing.T) {
	s := newTestStore(t)
	svc := newAdminService(t, s)
	require.NoError(t, svc.Bootstrap(context.Background()))

	// Wrong password and unknown username fail identically.
	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAdminService_Bootstrap_NoCredentials(t *testing.T) {
	s := newTestStore(t)

	key := make([]byte, 32)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	svc := NewAdminService(s, tokens, sandbox.NewRunner(0), config.AuthConfig{}, testLogger())

	// No credentials configured: nothing created, no error.
	require.NoError(t, svc.Bootstrap(context.Background()))

	count, err := s.CountAdminUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAdminService_TestScript(t *testing.T) {
	s := newTestStore(t)
	svc := newAdminService(t, s)

	result := svc.TestScript(context.Background(), ScriptTestInput{
		Source: `console.Log("hello", item.Title)`,
		Title:  "Draft Item",
	})
	require.Len(t, result.Logs, 1)
	assert.Equal(t, "hello Draft Item", result.Logs[0].Message)
}

func TestAdminService_TestScript_Fallbacks(t *testing.T) {
	s := newTestStore(t)
	svc := newAdminService(t, s)

	// Blank form fields get safe stand-ins.
	result := svc.TestScript(context.Background(), ScriptTestInput{
		Source: `console.Log(item.Title, item.FileType)`,
	})
	require.Len(t, result.Logs, 1)
	assert.Equal(t, "Test Item zip", result.Logs[0].Message)
}

func TestAdminService_TestScript_SilentRun(t *testing.T) {
	s := newTestStore(t)
	svc := newAdminService(t, s)

	result := svc.TestScript(context.Background(), ScriptTestInput{Source: `x := 1; _ = x`})
	require.Len(t, result.Logs, 1)
	assert.Equal(t, "Script executed successfully, no output", result.Logs[0].Message)
}

func TestAdminService_TestScript_ErrorBecomesLogLine(t *testing.T) {
	s := newTestStore(t)
	svc := newAdminService(t, s)

	result := svc.TestScript(context.Background(), ScriptTestInput{Source: `panic("kaboom")`})
	require.Len(t, result.Logs, 1)
	assert.Equal(t, "error", result.Logs[0].Level)
	assert.Contains(t, result.Logs[0].Message, "kaboom")
}
