package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier("secret")

	token, err := v.GenerateToken(42, "alice", time.Hour)
	require.NoError(t, err)

	userID, err := v.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifierRejects(t *testing.T) {
	v := NewVerifier("secret")

	expired, err := v.GenerateToken(1, "alice", -time.Minute)
	require.NoError(t, err)

	foreign, err := NewVerifier("other").GenerateToken(1, "alice", time.Hour)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	signed := func(userID any) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": userID,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}

	tests := map[string]string{
		"fractional user_id": signed(1.5),
		"user_id above 2^53": signed(float64(1<<60)),
		"string user_id":     signed("1"),
		"expired":       expired,
		"wrong secret":  foreign,
		"no user_id":    noUser,
		"no expiration": noExp,
		"garbage":       "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.VerifyToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifierAcceptsLargestExactID(t *testing.T) {
	v := NewVerifier("secret")

	token, err := v.GenerateToken(maxExactID, "alice", time.Hour)
	require.NoError(t, err)

	userID, err := v.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(maxExactID), userID)
}
