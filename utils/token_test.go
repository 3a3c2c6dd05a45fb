package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	secret := []byte("unit-test-secret")

	token, err := GenerateAuthToken(42, "ADMIN", secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := ParseAuthToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "ADMIN", role)
}

func TestParseAuthTokenWrongSecret(t *testing.T) {
	token, err := GenerateAuthToken(42, "USER", []byte("right"))
	require.NoError(t, err)

	_, _, err = ParseAuthToken(token, []byte("wrong"))
	assert.Error(t, err)
}

func TestParseAuthTokenGarbage(t *testing.T) {
	_, _, err := ParseAuthToken("not.a.token", []byte("secret"))
	assert.Error(t, err)
}
