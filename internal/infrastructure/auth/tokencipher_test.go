package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewTokenCipher("test-secret")
	require.NoError(t, err)

	sealed, err := c.Encrypt("hr-access-token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1."))
	assert.NotContains(t, sealed, "hr-access-token")

	again, err := c.Encrypt("hr-access-token")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "fresh nonce per encryption")

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hr-access-token", plain)
}

func TestTokenCipher_Rejects(t *testing.T) {
	c, err := NewTokenCipher("test-secret")
	require.NoError(t, err)
	other, err := NewTokenCipher("other-secret")
	require.NoError(t, err)

	sealed, err := c.Encrypt("tok")
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.Error(t, err, "wrong key")

	for _, bad := range []string{"", "tok", "v2." + sealed[3:], "v1.%%%", "v1.AAAA"} {
		_, err := c.Decrypt(bad)
		assert.Error(t, err, bad)
	}

	_, err = NewTokenCipher("")
	assert.Error(t, err)
}
