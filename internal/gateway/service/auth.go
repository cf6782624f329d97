package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/credgate/internal/gateway/directory"
	"github.com/aussiebroadwan/credgate/internal/gateway/events"
	"github.com/aussiebroadwan/credgate/pkg/cryptox"
	"github.com/aussiebroadwan/credgate/pkg/jwtx"
	"github.com/aussiebroadwan/credgate/pkg/slogx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/aussiebroadwan/credgate/internal/gateway/service")

type TokenCodec interface {
	Issue(id jwtx.Identity) (string, error)
	Decode(token string) (jwtx.Claims, error)
}

type RevocationStore interface {
	RecordUntil(token string, expiresAt time.Time)
	IsRevoked(token string) bool
	Clear() int
}

// LoginResult is a successful authentication: the token and a projection of
// the user without any credential material.
type LoginResult struct {
	Token string
	User  directory.UserSummary
}

// AuthService runs the login, validate and logout flows.
type AuthService struct {
	Credentials *CredentialVerifier
	Codec       TokenCodec
	Revocations RevocationStore
	Audit       events.Publisher
}

// Login authenticates identifier/password and issues an access token.
//
// Unknown identifiers and wrong passwords both give ErrInvalidCredentials.
// Inactive users give ErrUserInactive before the hash is ever fetched.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (res LoginResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	user, err := s.Credentials.ResolveByIdentifier(ctx, identifier)
	if err != nil {
		s.rejected(ctx, directory.UserSummary{}, err)
		return LoginResult{}, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	if err := s.Credentials.CheckActive(user); err != nil {
		s.rejected(ctx, user, err)
		return LoginResult{}, err
	}

	detail, err := s.Credentials.FetchCredentialDetail(ctx, user.ID)
	if err != nil {
		s.rejected(ctx, user, err)
		return LoginResult{}, err
	}

	if !s.Credentials.VerifyPassword(ctx, password, detail.PasswordHash) {
		s.rejected(ctx, user, ErrInvalidCredentials)
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.Codec.Issue(jwtx.Identity{
		ID:       detail.ID,
		Role:     detail.Role,
		Username: detail.Username,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	e := events.New(events.TypeLoginSucceeded)
	e.UserID = detail.ID
	e.Username = detail.Username
	s.publish(ctx, e)

	return LoginResult{Token: token, User: detail.UserSummary}, nil
}

// ValidateToken classifies token. Revocation is checked first and wins over
// every other outcome.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (id jwtx.Identity, err error) {
	_, span := tracer.Start(ctx, "AuthService.ValidateToken")
	defer func() { endSpan(span, err) }()

	if s.Revocations.IsRevoked(token) {
		return jwtx.Identity{}, ErrTokenBlocked
	}

	claims, err := s.Codec.Decode(token)
	switch {
	case err == nil:
		return claims.Identity(), nil
	case errors.Is(err, jwtx.ErrExpired):
		return jwtx.Identity{}, ErrTokenExpired
	case errors.Is(err, jwtx.ErrMalformed),
		errors.Is(err, jwtx.ErrInvalidSig),
		errors.Is(err, jwtx.ErrInvalidClaim):
		slogx.FromContext(ctx).Debug("token rejected", "err", err)
		return jwtx.Identity{}, ErrTokenInvalid
	default:
		return jwtx.Identity{}, fmt.Errorf("decode token: %w", err)
	}
}

// Logout revokes token without checking it first; any string can be
// revoked. The token's own expiry, when readable, is kept so a sweep can
// forget the entry once it no longer matters.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	exp, _ := jwtx.PeekExpiry(token)
	s.Revocations.RecordUntil(token, exp)

	e := events.New(events.TypeLogout)
	e.TokenFingerprint = cryptox.FingerprintToken(token)
	s.publish(ctx, e)

	return nil
}

// ClearRevocations empties the deny-list. Administrative use only.
func (s *AuthService) ClearRevocations(ctx context.Context) int {
	n := s.Revocations.Clear()
	slogx.FromContext(ctx).Warn("revocation list cleared", "cleared", n)
	return n
}

func (s *AuthService) rejected(ctx context.Context, user directory.UserSummary, reason error) {
	if errors.Is(reason, ErrUpstreamUnavailable) {
		return
	}
	e := events.New(events.TypeLoginRejected)
	e.UserID = user.ID
	e.Username = user.Username
	e.Reason = reason.Error()
	s.publish(ctx, e)
}

// publish is best effort; audit failures never change a flow's outcome.
func (s *AuthService) publish(ctx context.Context, e events.Event) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Publish(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("audit publish failed", "event", e.Type, "err", err)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
