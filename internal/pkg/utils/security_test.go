package utils

import (
	"medrecords-service/internal/pkg/exceptions"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionJWT(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		token, err := GenerateSessionJWT("sess-1", "secret", 1)
		require.NoError(t, err)

		sessionID, err := ParseJWT(token, "secret")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", sessionID)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token, err := GenerateSessionJWT("sess-1", "secret", 1)
		require.NoError(t, err)

		_, err = ParseJWT(token, "other")
		assert.ErrorIs(t, err, exceptions.ErrKindUnauthorized)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := GenerateSessionJWT("sess-1", "secret", -1)
		require.NoError(t, err)

		_, err = ParseJWT(token, "secret")
		assert.ErrorIs(t, err, exceptions.ErrKindUnauthorized)
	})

	t.Run("Missing Session Claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = ParseJWT(token, "secret")
		assert.ErrorIs(t, err, exceptions.ErrKindUnauthorized)
	})
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "scan.pdf", SanitizeFileName("../../etc/scan.pdf"), "path segments should be dropped")
	assert.Equal(t, "scan.pdf", SanitizeFileName(`C:\Users\me\scan.pdf`), "windows separators should be handled")
	assert.Equal(t, "Lab Results.pdf", SanitizeFileName("Lab Results.pdf"))
	assert.Empty(t, SanitizeFileName(""))
	assert.Empty(t, SanitizeFileName(".."))
}
