package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAPIKeyIsPrefixedAndUnique(t *testing.T) {
	assert := assert.New(t)
	g := New()
	seen := make(map[RandomTokenType]bool)
	for i := 0; i < 100; i++ {
		k := g.CreateAPIKey()
		assert.True(strings.HasPrefix(string(k), APIKeyPrefix))
		// prefix + 32 bytes hex encoded
		assert.Len(string(k), len(APIKeyPrefix)+64)
		assert.False(seen[k])
		seen[k] = true
	}
}

func TestCreateAccessTokenIsPrefixed(t *testing.T) {
	assert := assert.New(t)
	g := New()
	tok := g.CreateAccessToken()
	assert.True(strings.HasPrefix(string(tok), AccessTokenPrefix))
	assert.Len(string(tok), len(AccessTokenPrefix)+64)
}

func TestCreateSigninCodeIsEightDigits(t *testing.T) {
	assert := assert.New(t)
	g := New()
	for i := 0; i < 50; i++ {
		code := string(g.CreateSigninCode())
		assert.Len(code, 8)
		for _, r := range code {
			assert.True(r >= '0' && r <= '9')
		}
	}
}
