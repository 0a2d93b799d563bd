package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not a bcrypt hash", "correct horse battery staple"))
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 10; i++ {
		password, err := GeneratePassword()
		require.NoError(t, err)

		assert.Len(t, password, GeneratedPasswordLength)
		assert.False(t, seen[password], "generated passwords should not repeat")
		seen[password] = true

		for _, c := range password {
			assert.True(t, strings.ContainsRune(passwordAlphabet, c))
		}
	}
}
