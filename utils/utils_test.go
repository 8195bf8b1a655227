package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := []byte("0123456789abcdef")

	token, err := GenerateToken(secret, "u1", "a@x.com", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestValidateTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	secret := []byte("0123456789abcdef")

	token, err := GenerateToken(secret, "u1", "a@x.com", time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken([]byte("another-secret-value"), token)
	assert.Error(t, err)

	expired, err := GenerateToken(secret, "u1", "a@x.com", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	_, err := GenerateToken(nil, "u1", "a@x.com", time.Hour)
	assert.EqualError(t, err, "jwt secret is empty")
}

func TestNewAvatarSeed(t *testing.T) {
	seed := NewAvatarSeed(12)
	assert.Len(t, seed, 12)
	for _, c := range seed {
		assert.True(t, strings.ContainsRune(seedCharset, c))
	}
	assert.NotEqual(t, seed, NewAvatarSeed(12))
}

func TestAvatarURL(t *testing.T) {
	assert.Equal(t,
		"https://api.dicebear.com/7.x/adventurer/svg?seed=a+b",
		AvatarURL("https://api.dicebear.com/7.x/adventurer/svg", "a b"))
}

func TestNewHTTPClientTimeout(t *testing.T) {
	assert.Equal(t, 3*time.Second, NewHTTPClient(3*time.Second).Timeout)
}
