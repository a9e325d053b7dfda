package session

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/goGuard/identity"
)

var (
	// ErrNilCodec is returned by NewManager when no cookie codec is configured.
	ErrNilCodec = errors.New("session: cookie codec is required")
	// ErrAdapterRequired is returned when StrategyCustomAdapter has no adapter.
	ErrAdapterRequired = errors.New("session: custom adapter strategy requires an adapter")
	// ErrSingleSessionUnsupported is returned when single-session enforcement is
	// requested for a strategy or adapter that cannot provide it.
	ErrSingleSessionUnsupported = errors.New("session: single-session enforcement unsupported")
	// ErrUnknownStrategy is returned for out-of-range strategies.
	ErrUnknownStrategy = errors.New("session: unknown strategy")
	// ErrInvalidUser is returned by Create for nil users or users without an id.
	ErrInvalidUser = errors.New("session: user with a non-empty id is required")
	// ErrNoSession is returned by Touch when the request carries no active session.
	ErrNoSession = errors.New("session: no active session")
)

// AdapterError reports a failed storage adapter call. Its message is the
// adapter's own message so hosts can surface it unchanged.
type AdapterError struct {
	Op     string
	UserID identity.UserID
	Err    error
}

func (e *AdapterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("session adapter %s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

func adapterError(op string, id identity.UserID, err error) error {
	return &AdapterError{Op: op, UserID: id, Err: err}
}
