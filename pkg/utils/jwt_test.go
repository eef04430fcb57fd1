package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour, 24*time.Hour)
	userID := uuid.New()

	access, err := m.GenerateAccessToken(userID, "treasurer@church.org", []string{"treasurer"}, []string{"finance.view"})
	require.NoError(t, err)
	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"finance.view"}, claims.Permissions)

	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)
	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTManager_TokenTypesAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour, time.Hour)
	userID := uuid.New()

	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, err := m.GenerateAccessToken(userID, "", nil, nil)
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour, time.Hour)
	userID := uuid.New()

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := m.GenerateAccessToken(userID, "", nil, nil)
		m.now = time.Now
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-0123456789", time.Hour, time.Hour)
		token, err := other.GenerateAccessToken(userID, "", nil, nil)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{
			TokenType: TokenAccess,
			UserID:    userID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:  issuer,
				Subject: userID.String(),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.Error(t, err)
	})
}
