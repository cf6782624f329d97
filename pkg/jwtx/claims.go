package jwtx

import (
	"time"

	"github.com/aussiebroadwan/credgate/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the minimal user snapshot embedded in an access token.
type Identity struct {
	ID       idx.ExternalID
	Role     string
	Username string
}

// Claims are the access-token claims. The custom fields keep the names the
// downstream services already read: id, role and username.
type Claims struct {
	jwt.RegisteredClaims

	UserID   idx.ExternalID `json:"id"`
	Role     string         `json:"role"`
	Username string         `json:"username"`
}

// NewClaims builds the claims for id, valid for ttl starting at now.
func NewClaims(id Identity, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   id.ID,
		Role:     id.Role,
		Username: id.Username,
	}
}

// Identity returns the identity snapshot carried by the claims.
func (c Claims) Identity() Identity {
	return Identity{ID: c.UserID, Role: c.Role, Username: c.Username}
}

// Expiry returns the exp claim, or the zero time when absent.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
