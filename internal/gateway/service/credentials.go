package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/credgate/internal/gateway/directory"
	"github.com/aussiebroadwan/credgate/pkg/cryptox"
	"github.com/aussiebroadwan/credgate/pkg/idx"
	"github.com/aussiebroadwan/credgate/pkg/slogx"
)

// Directory is the read side of the external clients service.
type Directory interface {
	ListUsers(ctx context.Context) ([]directory.UserSummary, error)
	GetUserWithPassword(ctx context.Context, id idx.ExternalID) (directory.UserDetail, error)
}

// CredentialVerifier resolves users in the directory and checks passwords.
// Users are fetched per call and never cached.
type CredentialVerifier struct {
	Directory Directory
}

// ResolveByIdentifier returns the first listed user whose email or username
// equals identifier exactly. No match is reported as ErrInvalidCredentials
// so callers cannot tell an unknown user from a wrong password.
func (v *CredentialVerifier) ResolveByIdentifier(ctx context.Context, identifier string) (directory.UserSummary, error) {
	users, err := v.Directory.ListUsers(ctx)
	if err != nil {
		return directory.UserSummary{}, upstream(err)
	}

	for _, u := range users {
		if u.Email == identifier || u.Username == identifier {
			return u, nil
		}
	}
	return directory.UserSummary{}, ErrInvalidCredentials
}

// CheckActive rejects inactive users. It only needs the summary, so an
// inactive user's hash is never fetched.
func (v *CredentialVerifier) CheckActive(u directory.UserSummary) error {
	if !u.IsActive {
		return ErrUserInactive
	}
	return nil
}

// FetchCredentialDetail loads the user with its password hash. A detail
// without a hash is a backend integrity problem, not a client error.
func (v *CredentialVerifier) FetchCredentialDetail(ctx context.Context, id idx.ExternalID) (directory.UserDetail, error) {
	detail, err := v.Directory.GetUserWithPassword(ctx, id)
	if err != nil {
		return directory.UserDetail{}, upstream(err)
	}
	if detail.PasswordHash == "" {
		return directory.UserDetail{}, ErrCredentialUnavailable
	}
	return detail, nil
}

// VerifyPassword reports whether plaintext matches hash. An unusable hash
// counts as a mismatch.
func (v *CredentialVerifier) VerifyPassword(ctx context.Context, plaintext, hash string) bool {
	err := cryptox.VerifyPassword(plaintext, hash)
	if err == nil {
		return true
	}
	if !errors.Is(err, cryptox.ErrPasswordMismatch) {
		slogx.FromContext(ctx).Warn("stored password hash is unusable", "err", err)
	}
	return false
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}
