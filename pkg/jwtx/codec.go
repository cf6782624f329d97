package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used by callers that have no configured expiry policy.
const DefaultTTL = time.Hour

var (
	ErrEmptySecret = errors.New("jwtx: signing secret is empty")
	ErrInvalidTTL  = errors.New("jwtx: ttl must be positive")
)

// HS256Codec issues and verifies HMAC-SHA256 signed access tokens with a
// single shared secret.
type HS256Codec struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser

	// Now is the clock used for iat/exp and for expiry checks.
	Now func() time.Time
}

// NewHS256Codec returns a codec signing with secret and issuing tokens that
// live for ttl.
func NewHS256Codec(secret string, ttl time.Duration) (*HS256Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	c := &HS256Codec{
		secret: []byte(secret),
		ttl:    ttl,
		Now:    time.Now,
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.Now() }),
	)
	return c, nil
}

// TTL reports the configured token lifetime.
func (c *HS256Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token for id. The output is a pure function of id, the
// secret and the clock.
func (c *HS256Codec) Issue(id Identity) (string, error) {
	claims := NewClaims(id, c.ttl, c.Now())
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and then the expiry, returning the claims
// only when both hold.
func (c *HS256Codec) Decode(token string) (Claims, error) {
	var claims Claims
	_, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	return claims, nil
}

// PeekExpiry reads the exp claim without verifying anything. Never use the
// result to decide whether a token is valid.
func PeekExpiry(token string) (time.Time, bool) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	exp := claims.Expiry()
	return exp, !exp.IsZero()
}
