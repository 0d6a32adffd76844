package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "lexjuris-api", 24)

	token, err := tm.GenerateToken("admin-1", "asha@lexjuris.in", "Asha Menon", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "asha@lexjuris.in", claims.Email)
	assert.Equal(t, "Asha Menon", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "lexjuris-api", claims.Issuer)
}

func TestTokenManager_ValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "lexjuris-api", 24)
	other := NewTokenManager("different-secret", "lexjuris-api", 24)

	token, err := tm.GenerateToken("admin-1", "asha@lexjuris.in", "Asha Menon", "admin")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "lexjuris-api", 24)

	_, err := tm.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_TTL(t *testing.T) {
	tm := NewTokenManager("test-secret", "lexjuris-api", 12)
	assert.Equal(t, 12*time.Hour, tm.TTL())
}
