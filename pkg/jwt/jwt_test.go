package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybergaz/Hashira/pkg/jwt"
)

type testClaims struct {
	Name string `json:"name,omitempty"`
	jwt.StandardClaims
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()
		svc, err := jwt.New([]byte("test-signing-key-at-least-32-bytes"))
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()
		svc, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
		assert.Nil(t, svc)
	})

	t.Run("empty string key", func(t *testing.T) {
		t.Parallel()
		svc, err := jwt.NewFromString("")
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
		assert.Nil(t, svc)
	})
}

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("test-signing-key-at-least-32-bytes")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := testClaims{
			Name: "Tanjiro",
			StandardClaims: jwt.StandardClaims{
				Subject:   "user-1",
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
				IssuedAt:  time.Now().Unix(),
			},
		}

		token, err := svc.Generate(in)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var out testClaims
		require.NoError(t, svc.Parse(token, &out))
		assert.Equal(t, in, out)
	})

	t.Run("nil claims", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Generate(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(testClaims{
			StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
		})
		require.NoError(t, err)

		var out testClaims
		assert.ErrorIs(t, svc.Parse(token, &out), jwt.ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(testClaims{
			StandardClaims: jwt.StandardClaims{NotBefore: time.Now().Add(time.Hour).Unix()},
		})
		require.NoError(t, err)

		var out testClaims
		assert.ErrorIs(t, svc.Parse(token, &out), jwt.ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(testClaims{Name: "Tanjiro"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		tampered := parts[0] + ".eyJuYW1lIjoiTXV6YW4ifQ." + parts[2]

		var out testClaims
		assert.ErrorIs(t, svc.Parse(tampered, &out), jwt.ErrInvalidSignature)
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(testClaims{Name: "Tanjiro"})
		require.NoError(t, err)

		other, err := jwt.NewFromString("another-signing-key-32-bytes-long!")
		require.NoError(t, err)

		var out testClaims
		assert.ErrorIs(t, other.Parse(token, &out), jwt.ErrInvalidSignature)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		var out testClaims
		assert.ErrorIs(t, svc.Parse("not-a-token", &out), jwt.ErrInvalidToken)
		assert.ErrorIs(t, svc.Parse("a.b", &out), jwt.ErrInvalidToken)
	})
}
