package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")

	token, refreshToken, err := GenerateAllTokens("asha@example.com", "Asha", "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, token, refreshToken)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "user-1", claims.Uid)

	// The refresh token carries only the uid.
	refreshClaims, err := ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.Uid)
	assert.Empty(t, refreshClaims.Email)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")

	_, err := ValidateToken("definitely.not.ajwt")
	assert.Error(t, err)
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "signing-secret")
	token, _, err := GenerateAllTokens("asha@example.com", "Asha", "user-1")
	require.NoError(t, err)

	t.Setenv("SECRET_KEY", "different-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsTamperedToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")
	token, _, err := GenerateAllTokens("asha@example.com", "Asha", "user-1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}
