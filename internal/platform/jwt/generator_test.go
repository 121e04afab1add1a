package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewGenerator は各種設定でGeneratorが正しく生成されることを検証します。
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
		expected   time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour, time.Hour},
		{"zero falls back to seven days", "secret", 0, 7 * 24 * time.Hour},
		{"negative falls back to seven days", "s", -time.Minute, DefaultExpiration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)

			require.NotNil(t, gen)
			assert.Equal(t, tt.secret, string(gen.secret))
			assert.Equal(t, tt.expected, gen.expiration)
		})
	}
}

// TestGenerator_GenerateToken は生成されたトークンが検証を通り、正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := NewGenerator("test-secret", DefaultExpiration)
	gen.now = func() time.Time { return now }

	signed, err := gen.GenerateToken("9b2f6d2e-user", "user+tag@example.com")
	require.NoError(t, err)

	claims, err := gen.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "9b2f6d2e-user", claims.UserID)
	assert.Equal(t, "user+tag@example.com", claims.Email)
	assert.True(t, now.Add(7*24*time.Hour).Equal(claims.ExpiresAt.Time))

	parsed, _, err := jwt.NewParser().ParseUnverified(signed, &Claims{})
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Method.Alg())

	again, err := gen.GenerateToken("9b2f6d2e-user", "user+tag@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, signed, again, "tokens issued in the same second are distinct")
}

func TestGenerator_Verify_Rejects(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	gen := NewGenerator(secret, time.Hour)

	expired := NewGenerator(secret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken("u-1", "a@example.com")
	require.NoError(t, err)

	otherSecret, err := NewGenerator("wrong-secret", time.Hour).GenerateToken("u-1", "a@example.com")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "u-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u-1"}).SignedString([]byte(secret))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", otherSecret},
		{"expired token", expiredToken},
		{"none algorithm", none},
		{"missing exp", noExpiry},
		{"missing user_id", noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := gen.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
