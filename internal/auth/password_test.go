package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePasswordHash(t *testing.T) {
	password := "secret1"
	hashedPassword, err := GeneratePasswordHash(password)

	require.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
}

func TestGeneratePasswordHash_Salted(t *testing.T) {
	// Same input must produce different hashes (per-call salt).
	first, err := GeneratePasswordHash("secret1")
	require.NoError(t, err)

	second, err := GeneratePasswordHash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGeneratePasswordHash_EmptyPassword(t *testing.T) {
	hashedPassword, err := GeneratePasswordHash("")

	assert.ErrorIs(t, err, ErrPasswordRequired)
	assert.Empty(t, hashedPassword)
}

func TestComparePasswordHash(t *testing.T) {
	password := "secret1"
	hashedPassword, err := GeneratePasswordHash(password)
	require.NoError(t, err)

	match, err := ComparePasswordHash(password, hashedPassword)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = ComparePasswordHash("wrongpassword", hashedPassword)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestComparePasswordHash_MalformedHash(t *testing.T) {
	match, err := ComparePasswordHash("secret1", "notahash")

	require.NoError(t, err)
	assert.False(t, match)
}

func TestComparePasswordHash_EmptyArguments(t *testing.T) {
	hashedPassword, err := GeneratePasswordHash("secret1")
	require.NoError(t, err)

	_, err = ComparePasswordHash("", hashedPassword)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = ComparePasswordHash("secret1", "")
	assert.ErrorIs(t, err, ErrHashRequired)
}
