package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountTokenLengthAndCharset(t *testing.T) {
	token, err := AccountToken()
	require.NoError(t, err)

	assert.Len(t, token, 64)
	assert.True(t, IsValidToken(token))
}

func TestAccountTokensAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := AccountToken()
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestIsValidTokenRejectsBadInput(t *testing.T) {
	assert.False(t, IsValidToken(""))
	assert.False(t, IsValidToken("short"))
	assert.False(t, IsValidToken(string(make([]byte, 64))))
}

func TestID(t *testing.T) {
	assert.NotEqual(t, ID(), ID())
	assert.Len(t, ID(), 36)
}
