package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/credgate/internal/gateway/directory"
	"github.com/aussiebroadwan/credgate/internal/gateway/events"
	"github.com/aussiebroadwan/credgate/internal/gateway/service"
	"github.com/aussiebroadwan/credgate/pkg/idx"
	"github.com/aussiebroadwan/credgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("by email then validate round trip", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Login(ctx, "alice@example.com", "correct")
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
		require.Equal(t, "alice", res.User.Username)
		require.Equal(t, "alice@example.com", res.User.Email)

		id, err := f.svc.ValidateToken(ctx, res.Token)
		require.NoError(t, err)
		require.Equal(t, jwtx.Identity{ID: idx.NumericID("1"), Role: "admin", Username: "alice"}, id)
		require.Equal(t, []string{events.TypeLoginSucceeded}, f.audit.types())
	})

	t.Run("by username", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, "alice", "correct")
		require.NoError(t, err)
	})

	t.Run("identifier match is case sensitive", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, "Alice", "correct")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		f := newFixture(t)

		_, unknown := f.svc.Login(ctx, "nobody", "correct")
		_, wrong := f.svc.Login(ctx, "alice", "incorrect")
		require.ErrorIs(t, unknown, service.ErrInvalidCredentials)
		require.ErrorIs(t, wrong, service.ErrInvalidCredentials)
		require.Equal(t, unknown.Error(), wrong.Error())
	})

	t.Run("inactive user is forbidden and hash never fetched", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Login(ctx, "bob", "correct")
		require.ErrorIs(t, err, service.ErrUserInactive)
		require.Empty(t, f.dir.getCalls)
		require.Equal(t, []string{events.TypeLoginRejected}, f.audit.types())
	})

	t.Run("inactive user with wrong password is still forbidden", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, "bob", "nope")
		require.ErrorIs(t, err, service.ErrUserInactive)
	})

	t.Run("missing hash", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, "carol", "anything")
		require.ErrorIs(t, err, service.ErrCredentialUnavailable)
		require.Equal(t, []idx.ExternalID{idx.StringID("c-3")}, f.dir.getCalls)
	})

	t.Run("first match wins", func(t *testing.T) {
		f := newFixture(t)
		dup := f.dir.users[0]
		dup.ID = idx.NumericID("99")
		dup.PasswordHash = hash(t, "other")
		f.dir.users = append(f.dir.users, dup)

		res, err := f.svc.Login(ctx, "alice", "correct")
		require.NoError(t, err)
		require.Equal(t, idx.NumericID("1"), res.User.ID)
	})

	t.Run("directory listing down", func(t *testing.T) {
		f := newFixture(t)
		f.dir.listErr = directory.ErrUnavailable

		_, err := f.svc.Login(ctx, "alice", "correct")
		require.ErrorIs(t, err, service.ErrUpstreamUnavailable)
		require.ErrorIs(t, err, directory.ErrUnavailable)
		require.Empty(t, f.audit.types())
	})

	t.Run("directory detail down", func(t *testing.T) {
		f := newFixture(t)
		f.dir.getErr = errors.New("boom")

		_, err := f.svc.Login(ctx, "alice", "correct")
		require.ErrorIs(t, err, service.ErrUpstreamUnavailable)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("expiry", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.Login(ctx, "alice", "correct")
		require.NoError(t, err)

		f.codec.Now = func() time.Time { return f.now.Add(59 * time.Minute) }
		_, err = f.svc.ValidateToken(ctx, res.Token)
		require.NoError(t, err)

		f.codec.Now = func() time.Time { return f.now.Add(time.Hour + time.Second) }
		_, err = f.svc.ValidateToken(ctx, res.Token)
		require.ErrorIs(t, err, service.ErrTokenExpired)
	})

	t.Run("invalid", func(t *testing.T) {
		f := newFixture(t)
		for _, tok := range []string{"abc.def.ghi", "", "x"} {
			_, err := f.svc.ValidateToken(ctx, tok)
			require.ErrorIs(t, err, service.ErrTokenInvalid, "token %q", tok)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.Login(ctx, "alice", "correct")
		require.NoError(t, err)

		b := []byte(res.Token)
		mid := len(b) / 2
		if b[mid] == 'A' {
			b[mid] = 'B'
		} else {
			b[mid] = 'A'
		}
		_, err = f.svc.ValidateToken(ctx, string(b))
		require.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("revocation beats expiry", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.Login(ctx, "alice", "correct")
		require.NoError(t, err)
		require.NoError(t, f.svc.Logout(ctx, res.Token))

		_, err = f.svc.ValidateToken(ctx, res.Token)
		require.ErrorIs(t, err, service.ErrTokenBlocked)

		f.codec.Now = func() time.Time { return f.now.Add(2 * time.Hour) }
		_, err = f.svc.ValidateToken(ctx, res.Token)
		require.ErrorIs(t, err, service.ErrTokenBlocked)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("accepts any string", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.Logout(ctx, "abc.def.ghi"))
		require.True(t, f.store.IsRevoked("abc.def.ghi"))

		_, err := f.svc.ValidateToken(ctx, "abc.def.ghi")
		require.ErrorIs(t, err, service.ErrTokenBlocked)
	})

	t.Run("remembers token expiry for sweeping", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.Login(ctx, "alice", "correct")
		require.NoError(t, err)
		require.NoError(t, f.svc.Logout(ctx, res.Token))

		require.Zero(t, f.store.Sweep(f.now))
		require.Equal(t, 1, f.store.Sweep(f.now.Add(time.Hour)))
	})

	t.Run("audit never carries the raw token", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.Logout(ctx, "a.b.c"))

		require.Len(t, f.audit.events, 1)
		e := f.audit.events[0]
		require.Equal(t, events.TypeLogout, e.Type)
		require.NotEmpty(t, e.TokenFingerprint)
		require.NotEqual(t, "a.b.c", e.TokenFingerprint)
	})

	t.Run("clear resets the deny-list", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.Logout(ctx, "a.b.c"))
		require.Equal(t, 1, f.svc.ClearRevocations(ctx))
		require.False(t, f.store.IsRevoked("a.b.c"))
	})
}
