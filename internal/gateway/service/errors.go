package service

import "errors"

// Outcome kinds returned by the session flows. The transport maps each one
// to a response; anything else is an internal error.
var (
	ErrInvalidCredentials    = errors.New("invalid_credentials")
	ErrUserInactive          = errors.New("user_inactive")
	ErrCredentialUnavailable = errors.New("credential_unavailable")
	ErrUpstreamUnavailable   = errors.New("upstream_unavailable")

	ErrTokenBlocked = errors.New("token_blocked")
	ErrTokenExpired = errors.New("token_expired")
	ErrTokenInvalid = errors.New("token_invalid")
)
