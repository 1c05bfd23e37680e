package auth

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/jrsteele09/go-crawler-client/internal/errors"
)

// TokenInfo is an informational peek at the bearer token's JWT claims. The
// signature is NOT verified; this exists so the UI can show who the token
// was minted for and when it lapses. Authorization decisions stay with the
// backend.
type TokenInfo struct {
	Subject   string
	Email     string
	ExpiresAt time.Time // zero when the token carries no expiry
}

// Expired reports whether the token's expiry claim has passed. Tokens
// without an expiry never report expired.
func (t TokenInfo) Expired() bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(time.Now())
}

// ParseTokenInfo decodes the claims of a JWT bearer token without
// verifying its signature.
func ParseTokenInfo(token string) (*TokenInfo, error) {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrapf(err, "[ParseTokenInfo] parse token")
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
