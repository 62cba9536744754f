package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	svc := NewJWTService("secret", "dashboard")

	token, err := svc.Generate(42, "ops@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
	assert.Equal(t, "ops@example.com", claims.Email)

	t.Run("expired", func(t *testing.T) {
		old, err := svc.Generate(42, "", -time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(old)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTService("other", "dashboard").Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewJWTService("secret", "elsewhere").Verify(token)
		assert.Error(t, err)
	})

	t.Run("zero user id", func(t *testing.T) {
		bad, err := svc.Generate(0, "", time.Hour)
		require.NoError(t, err)
		_, err = svc.Verify(bad)
		assert.Error(t, err)
	})
}
