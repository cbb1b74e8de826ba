package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/scanportal-client/internal/model"
)

func sign(t *testing.T, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestJWT_Check_Valid(t *testing.T) {
	now := time.Now()
	tok := sign(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: "dentist",
	})

	j := NewJWT()
	require.NoError(t, j.Check(tok, now))

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "dentist", claims.Role)
}

func TestJWT_Check_Expired(t *testing.T) {
	now := time.Now()
	tok := sign(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	})

	err := NewJWT().Check(tok, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_Check_NoExpiry(t *testing.T) {
	tok := sign(t, Claims{Role: "technician"})
	assert.NoError(t, NewJWT().Check(tok, time.Now()))
}

func TestJWT_Check_Malformed(t *testing.T) {
	err := NewJWT().Check("abc.def.ghi", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTokenMalformed)
}

func TestJWT_Check_OpaqueTokenPasses(t *testing.T) {
	j := NewJWT()
	assert.NoError(t, j.Check("d41d8cd98f00b204e9800998ecf8427e", time.Now()))
	assert.NoError(t, j.Check("not a jwt.at all.really", time.Now()))
}
