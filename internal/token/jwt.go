package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/scanportal-client/internal/model"
)

// Claims represents the claims the client reads from a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// JWT implements TokenInspector for JWT-shaped session tokens.
//
// Signatures are not verified: the client never holds the signing key.
type JWT struct {
	parser *jwt.Parser
}

var _ model.TokenInspector = (*JWT)(nil)

// NewJWT creates a new token inspector.
func NewJWT() *JWT {
	return &JWT{parser: jwt.NewParser()}
}

// Check returns ErrTokenExpired for an expired JWT and ErrTokenMalformed for a
// JWT-shaped token that does not decode. Opaque tokens pass unchecked.
func (j *JWT) Check(tokenString string, now time.Time) error {
	if !looksLikeJWT(tokenString) {
		return nil
	}

	claims, err := j.Parse(tokenString)
	if err != nil {
		return err
	}

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w: expired at %s", model.ErrTokenExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}

	return nil
}

// Parse decodes the claims of a JWT without verifying its signature.
func (j *JWT) Parse(tokenString string) (Claims, error) {
	claims := Claims{}
	if _, _, err := j.parser.ParseUnverified(tokenString, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
	return claims, nil
}

func looksLikeJWT(s string) bool {
	return strings.Count(s, ".") == 2 && !strings.ContainsAny(s, " \t\r\n")
}
