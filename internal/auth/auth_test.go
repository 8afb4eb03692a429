package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up4down/up4down-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadOrGenerateKey_RoundTrip(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "token.key")

	key1, err := LoadOrGenerateKey(keyPath)
	require.NoError(t, err)
	assert.Len(t, key1, 32)

	// Second load returns the same key.
	key2, err := LoadOrGenerateKey(keyPath)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

func TestSessionToken_RoundTrip(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "token.key")
	key, err := LoadOrGenerateKey(keyPath)
	require.NoError(t, err)

	svc, err := NewTokenService(key, time.Hour)
	require.NoError(t, err)

	admin := &domain.AdminUser{
		Record:   domain.Record{ID: "admin-1"},
		Username: "admin",
	}

	token, err := svc.GenerateSessionToken(admin)
	require.NoError(t, err)

	claims, err := svc.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin-1", claims.Subject)
}

func TestVerifySessionToken_WrongKey(t *testing.T) {
	dir := t.TempDir()
	key1, err := LoadOrGenerateKey(filepath.Join(dir, "a.key"))
	require.NoError(t, err)
	key2, err := LoadOrGenerateKey(filepath.Join(dir, "b.key"))
	require.NoError(t, err)

	svc1, err := NewTokenService(key1, time.Hour)
	require.NoError(t, err)
	svc2, err := NewTokenService(key2, time.Hour)
	require.NoError(t, err)

	token, err := svc1.GenerateSessionToken(&domain.AdminUser{
		Record: domain.Record{ID: "admin-1"}, Username: "admin",
	})
	require.NoError(t, err)

	_, err = svc2.VerifySessionToken(token)
	assert.Error(t, err)
}

func TestVerifySessionToken_Expired(t *testing.T) {
	key, err := LoadOrGenerateKey(filepath.Join(t.TempDir(), "token.key"))
	require.NoError(t, err)

	svc, err := NewTokenService(key, -time.Minute)
	require.NoError(t, err)

	token, err := svc.GenerateSessionToken(&domain.AdminUser{
		Record: domain.Record{ID: "admin-1"}, Username: "admin",
	})
	require.NoError(t, err)

	_, err = svc.VerifySessionToken(token)
	assert.Error(t, err)
}

func TestNewTokenService_BadKeyLength(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	assert.Error(t, err)
}
