// Package auth implements the token codec, credential checks, and the
// authorization-code ledger behind the copyforge token endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Typed token verification failures. Callers collapse both to a single 401
// challenge; the distinction is for logs and tests.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// DefaultTokenTTL applies when Issue is called with a zero TTL.
const DefaultTokenTTL = 15 * time.Minute

const issuer = "copyforge-server"

// Codec issues and verifies signed bearer tokens. Tokens are HMAC-SHA256
// JWTs carrying a subject and absolute expiry; no server-side session state
// exists beyond the signing secret.
type Codec struct {
	secret []byte
}

// NewCodec creates a Codec with the given signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue produces a signed token for subject, expiring after ttl
// (DefaultTokenTTL if ttl is zero).
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the subject claim.
// Malformed input, a bad signature, a non-HMAC alg header, and a missing
// subject all report ErrTokenInvalid; an elapsed expiry reports
// ErrTokenExpired. Verify never panics on arbitrary input.
func (c *Codec) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
