package session

import (
	"fmt"
	"time"

	"github.com/MrEthical07/goGuard/identity"
)

// Session is the server-side view of one login.
type Session struct {
	ID     string
	UserID identity.UserID
	// User is set for cookie-only sessions, where the cookie carries the
	// whole payload.
	User      *identity.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// State is the lifecycle position of a session as observed on one request.
type State uint8

const (
	// StateNone means no session cookie (or an unusable one) was presented.
	StateNone State = iota
	// StateActive means the session resolved to a user.
	StateActive
	// StateExpired means the cookie was valid once but the session is gone:
	// its exp passed, the adapter no longer holds the user, or a newer
	// single-session login superseded it.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Resolution is the outcome of resolving a request's session cookie.
type Resolution struct {
	State   State
	Session *Session
	User    *identity.User
	// SetCookie, when non-empty, is a Set-Cookie header the caller should
	// emit: a refreshed cookie under sliding expiration, or a clearing
	// cookie for expired and invalid sessions.
	SetCookie string
}

// Active reports whether the resolution carries a user.
func (r Resolution) Active() bool {
	return r.State == StateActive && r.User != nil
}
