package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Success(t *testing.T) {
	hash, err := HashPassword("password123")

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)
}

func TestHashPassword_TooShort(t *testing.T) {
	hash, err := HashPassword("short")

	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Empty(t, hash)
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	hash1, err := HashPassword("password123")
	require.NoError(t, err)
	hash2, err := HashPassword("password123")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, hash1, hash2)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
	assert.False(t, CheckPassword("", hash))
	assert.False(t, CheckPassword("password123", "not-a-hash"))
}
