// Package events publishes authentication audit events.
package events

import (
	"context"
	"time"

	"github.com/aussiebroadwan/credgate/pkg/idx"
)

const (
	TypeLoginSucceeded = "login.succeeded"
	TypeLoginRejected  = "login.rejected"
	TypeLogout         = "logout"
)

// Event is one audit record. It never carries passwords, hashes or raw
// tokens; logouts are identified by token fingerprint.
type Event struct {
	ID               idx.ID         `json:"id"`
	Type             string         `json:"type"`
	At               time.Time      `json:"at"`
	UserID           idx.ExternalID `json:"user_id"`
	Username         string         `json:"username,omitempty"`
	Reason           string         `json:"reason,omitempty"`
	TokenFingerprint string         `json:"token_fingerprint,omitempty"`
}

// New stamps an event of type typ with an id and the current time.
func New(typ string) Event {
	return Event{ID: idx.New(), Type: typ, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
