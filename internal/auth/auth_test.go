package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, "mantenimiento", time.Hour)

	token, expires, err := m.GenerateToken("sub-1", "a@test.com")
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.Subject)
	assert.Equal(t, "a@test.com", claims.Email)
}

func TestJWTManagerRejectsOtherSecret(t *testing.T) {
	issuer := NewJWTManager(testSecret, "mantenimiento", time.Hour)
	other := NewJWTManager("fedcba9876543210fedcba9876543210", "mantenimiento", time.Hour)

	token, _, err := issuer.GenerateToken("sub-1", "a@test.com")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTManagerRejectsExpired(t *testing.T) {
	m := NewJWTManager(testSecret, "mantenimiento", -time.Minute)

	token, _, err := m.GenerateToken("sub-1", "a@test.com")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := Hash("secreto123")
	require.NoError(t, err)

	ok, err := Verify("secreto123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("otra", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Equal(t, "verify:x", VerifyCacheKey("x"))
}
