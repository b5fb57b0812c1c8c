package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminToken(t *testing.T) {
	const secret = "session-secret"

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := GenerateAdminToken(secret, time.Hour)
		require.NoError(t, err)
		assert.NoError(t, ParseAdminToken(secret, token))
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := GenerateAdminToken(secret, -time.Minute)
		require.NoError(t, err)
		assert.Error(t, ParseAdminToken(secret, token))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := GenerateAdminToken(secret, time.Hour)
		require.NoError(t, err)
		assert.Error(t, ParseAdminToken("other-secret", token))
	})

	t.Run("Garbage", func(t *testing.T) {
		assert.Error(t, ParseAdminToken(secret, "not.a.token"))
	})
}
