package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/credgate/internal/gateway/directory"
	"github.com/aussiebroadwan/credgate/internal/gateway/events"
	"github.com/aussiebroadwan/credgate/internal/gateway/revocation"
	"github.com/aussiebroadwan/credgate/internal/gateway/service"
	"github.com/aussiebroadwan/credgate/pkg/idx"
	"github.com/aussiebroadwan/credgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeDirectory serves users from memory and counts calls.
type fakeDirectory struct {
	mu      sync.Mutex
	users   []directory.UserDetail
	listErr error
	getErr  error

	listCalls int
	getCalls  []idx.ExternalID
}

func (f *fakeDirectory) ListUsers(context.Context) ([]directory.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]directory.UserSummary, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u.UserSummary)
	}
	return out, nil
}

func (f *fakeDirectory) GetUserWithPassword(_ context.Context, id idx.ExternalID) (directory.UserDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, id)
	if f.getErr != nil {
		return directory.UserDetail{}, f.getErr
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return directory.UserDetail{}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

type fixture struct {
	svc   *service.AuthService
	dir   *fakeDirectory
	codec *jwtx.HS256Codec
	store *revocation.MemoryStore
	audit *recordingPublisher
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Unix(1700000000, 0)
	codec, err := jwtx.NewHS256Codec("test-secret", time.Hour)
	require.NoError(t, err)
	codec.Now = func() time.Time { return now }

	dir := &fakeDirectory{users: []directory.UserDetail{
		{
			UserSummary: directory.UserSummary{
				ID: idx.NumericID("1"), Email: "alice@example.com", Username: "alice", Role: "admin", IsActive: true,
			},
			PasswordHash: hash(t, "correct"),
		},
		{
			UserSummary: directory.UserSummary{
				ID: idx.NumericID("2"), Email: "bob@example.com", Username: "bob", Role: "customer", IsActive: false,
			},
			PasswordHash: hash(t, "correct"),
		},
		{
			UserSummary: directory.UserSummary{
				ID: idx.StringID("c-3"), Email: "carol@example.com", Username: "carol", Role: "customer", IsActive: true,
			},
		},
	}}

	store := revocation.NewMemoryStore()
	audit := &recordingPublisher{}

	return &fixture{
		svc: &service.AuthService{
			Credentials: &service.CredentialVerifier{Directory: dir},
			Codec:       codec,
			Revocations: store,
			Audit:       audit,
		},
		dir:   dir,
		codec: codec,
		store: store,
		audit: audit,
		now:   now,
	}
}
