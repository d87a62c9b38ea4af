package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndParse(t *testing.T) {
	token, exp, err := Generate(testSecret, "user-1", "admin", "facturacion-api", 60)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	userID, username, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", username)
}

func TestParse_WrongSecret(t *testing.T) {
	token, _, err := Generate(testSecret, "user-1", "admin", "", 60)
	require.NoError(t, err)

	_, _, err = Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, _, err := Generate(testSecret, "user-1", "admin", "", -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, token)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, _, err := Generate("", "user-1", "admin", "", 60)
	assert.Error(t, err)

	_, _, err = Parse("", "cualquier.cosa.aqui")
	assert.Error(t, err)
}
