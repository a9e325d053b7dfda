package adapter

import (
	"context"
	"errors"

	"github.com/MrEthical07/goGuard/identity"
)

var (
	// ErrNilUser is returned by Set when no user value is supplied.
	ErrNilUser = errors.New("adapter: nil user")
	// ErrEmptyUserID is returned when an operation is keyed by an empty id.
	ErrEmptyUserID = errors.New("adapter: empty user id")
	// ErrAdapterPanic wraps a panic recovered at the adapter boundary.
	ErrAdapterPanic = errors.New("adapter: panic recovered")
	// ErrBindingUnsupported is returned by a guarded adapter whose backend does
	// not implement [SessionBinder].
	ErrBindingUnsupported = errors.New("adapter: session binding unsupported")
)

// Adapter persists per-user session payloads.
//
// Every method returns a (value, error) pair and must never panic. A missing
// user is not an error: Get returns (nil, nil). Implementations must be safe for
// concurrent use across different user ids, and a Set followed by a Get for the
// same id from the same caller must observe the write.
type Adapter interface {
	// Get returns the stored user or (nil, nil) when none exists.
	Get(ctx context.Context, id identity.UserID) (*identity.User, error)
	// GetAll returns every live user.
	GetAll(ctx context.Context) ([]*identity.User, error)
	// Has reports whether a live record exists for id.
	Has(ctx context.Context, id identity.UserID) (bool, error)
	// Set upserts the record for id. An existing record is replaced, not merged.
	// The stored record's ID is id.
	Set(ctx context.Context, id identity.UserID, user *identity.User) (*identity.User, error)
	// Remove deletes the record for id. Removing a missing id is not an error.
	Remove(ctx context.Context, id identity.UserID) error
	// ResetExpiration extends a time-bound record. Adapters without expiry
	// report true. The result is best effort and does not prove existence.
	ResetExpiration(ctx context.Context, id identity.UserID) (bool, error)
}

// SessionBinder is the capability required for single-session enforcement.
// It binds a user id to the session id of its latest login so that older
// sessions for the same user can be recognised as superseded.
type SessionBinder interface {
	// BindSession records sessionID as the only valid session for id.
	// Concurrent binds resolve as last writer wins.
	BindSession(ctx context.Context, id identity.UserID, sessionID string) error
	// SessionBinding returns the bound session id, if any.
	SessionBinding(ctx context.Context, id identity.UserID) (string, bool, error)
}

// SupportsBinding reports whether a (possibly guarded) adapter implements
// [SessionBinder].
func SupportsBinding(a Adapter) bool {
	if g, ok := a.(*guarded); ok {
		a = g.inner
	}
	_, ok := a.(SessionBinder)
	return ok
}

// PrepareUser validates a Set call and returns the record to store: the
// normalized (JSON) form of user whose ID is id. Adapter implementations use
// it so that every backend rejects the same inputs and returns the same
// attribute types.
func PrepareUser(id identity.UserID, user *identity.User) (*identity.User, error) {
	if id == "" {
		return nil, ErrEmptyUserID
	}
	if user == nil {
		return nil, ErrNilUser
	}
	stored, err := user.Normalize()
	if err != nil {
		return nil, err
	}
	stored.ID = id
	return stored, nil
}
