package goGuard

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MrEthical07/goGuard/access"
	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/cookie"
	"github.com/MrEthical07/goGuard/session"
)

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// AuditConfig controls asynchronous audit dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Options configures an [Authenticator]. Options are copied at Build and
// treated as immutable afterwards.
type Options struct {
	Strategy session.Strategy
	Cookie   cookie.Config
	// Adapter is required by session.StrategyCustomAdapter. The in-memory
	// strategy accepts one as an override; cookie strategies ignore it.
	Adapter adapter.Adapter
	// EnableSingleSession keeps only the latest login of each user valid.
	// Requires session.StrategyCustomAdapter and an adapter implementing
	// adapter.SessionBinder.
	EnableSingleSession bool
	// SessionTTL is the session lifetime. Zero uses Cookie.MaxAge.
	SessionTTL        time.Duration
	SlidingExpiration bool

	// LoginPath receives unauthenticated requests.
	LoginPath string
	// ReturnToParam is the query parameter carrying the original request URI
	// to the login page.
	ReturnToParam string
	// DefaultRedirect is used when login or logout get no usable target.
	DefaultRedirect string

	// Catalog, when set, rejects logins carrying undeclared roles and lets
	// hosts validate rules at startup.
	Catalog *access.Catalog

	Metrics MetricsConfig
	Audit   AuditConfig
}

// DefaultOptions returns cookie-only options with hardened cookie defaults.
// Cookie.Secrets must still be supplied.
func DefaultOptions() Options {
	return Options{
		Strategy:        session.StrategyDefault,
		Cookie:          cookie.DefaultConfig(),
		LoginPath:       "/login",
		ReturnToParam:   "redirectTo",
		DefaultRedirect: "/",
		Audit: AuditConfig{
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

// Validate reports the first configuration error, wrapped with
// [ErrInvalidConfig].
func (o Options) Validate() error {
	if err := o.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (o Options) validate() error {
	if err := o.Cookie.Validate(); err != nil {
		return err
	}
	if _, err := o.Strategy.MarshalText(); err != nil {
		return err
	}
	if o.Strategy == session.StrategyCustomAdapter && o.Adapter == nil {
		return errors.New("custom adapter strategy requires an adapter")
	}
	if o.EnableSingleSession {
		if o.Strategy != session.StrategyCustomAdapter {
			return errors.New("single session requires the custom adapter strategy")
		}
		if !adapter.SupportsBinding(o.Adapter) {
			return errors.New("single session requires an adapter implementing SessionBinder")
		}
	}
	if o.SessionTTL < 0 {
		return errors.New("session ttl must be >= 0")
	}
	if o.SessionTTL > 0 && o.Cookie.MaxAge > 0 && o.SessionTTL > o.Cookie.MaxAge {
		return errors.New("session ttl must not exceed cookie max age")
	}
	if !isLocalPath(o.LoginPath) {
		return errors.New("login path must be a local absolute path")
	}
	if u, err := url.Parse(o.LoginPath); err != nil || u.Fragment != "" {
		return errors.New("login path must be a path with an optional query")
	}
	if strings.TrimSpace(o.ReturnToParam) == "" {
		return errors.New("return-to parameter is required")
	}
	if o.DefaultRedirect != "" && !isLocalPath(o.DefaultRedirect) {
		return errors.New("default redirect must be a local absolute path")
	}
	if o.Audit.Enabled && o.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be > 0")
	}
	if o.Catalog != nil && !o.Catalog.Frozen() {
		return errors.New("role catalog must be frozen")
	}
	return nil
}

// isLocalPath accepts same-origin paths only, so redirect targets taken from
// query parameters cannot send users to another host.
func isLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	if strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	return !strings.ContainsAny(p, "\r\n")
}
