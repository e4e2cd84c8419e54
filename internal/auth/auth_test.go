package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("fore!")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("fore!", hash))
	assert.False(t, CheckPasswordHash("four!", hash))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPassword("fore!")
	require.NoError(t, err)
	second, err := HashPassword("fore!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same password, different salt, different hash")
}

func TestCheckPasswordHashRejectsGarbage(t *testing.T) {
	assert.False(t, CheckPasswordHash("fore!", "not-a-valid-hash"))
	assert.False(t, CheckPasswordHash("fore!", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "secret")
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.PlayerID)
	assert.NotEmpty(t, claims.ID, "every token carries a unique id")
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(7, "secret")
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}
