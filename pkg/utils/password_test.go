package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	require.True(t, strings.Contains(hash, "."), "encoded hash carries salt.hash")

	err = VerifyPassword("s3cret-passphrase", hash)
	assert.NoError(t, err)

	err = VerifyPassword("wrong-passphrase", hash)
	assert.Error(t, err)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	err := VerifyPassword("whatever", "not-a-valid-encoding")
	assert.Error(t, err)
}
