package goGuard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/MrEthical07/goGuard/access"
	"github.com/MrEthical07/goGuard/identity"
	"github.com/MrEthical07/goGuard/session"
)

// Authenticator is the host-facing facade: login, user resolution, logout,
// and access decisions. It is safe for concurrent use once built.
type Authenticator struct {
	options  Options
	sessions *session.Manager
	catalog  *access.Catalog
	logger   *slog.Logger
	metrics  *Metrics
	audit    *auditDispatcher
	now      func() time.Time
}

// Strategy returns the configured session strategy.
func (a *Authenticator) Strategy() session.Strategy {
	return a.sessions.Strategy()
}

// Sessions exposes the underlying session manager.
func (a *Authenticator) Sessions() *session.Manager {
	return a.sessions
}

// LoginAndRedirect starts a session for user and returns a 303 redirect to
// redirectTo carrying the session cookie. Non-local targets fall back to
// Options.DefaultRedirect. An adapter failure yields a 500 *StatusError whose
// Data is the adapter's message. Other failures, for example a cookie-only
// user too large for a cookie, are 500 *StatusError values wrapping the cause.
func (a *Authenticator) LoginAndRedirect(ctx context.Context, user *identity.User, redirectTo string) (*Redirect, error) {
	if err := a.checkCatalog(user); err != nil {
		a.metrics.Inc(MetricLoginFailure)
		a.emitAudit(ctx, AuditLogin, user, "", clientIPFromContext(ctx), false, err)
		return nil, newStatusError(http.StatusInternalServerError, err.Error(), err)
	}

	setCookie, sess, err := a.sessions.Create(ctx, user)
	if err != nil {
		a.metrics.Inc(MetricLoginFailure)
		a.emitAudit(ctx, AuditLogin, user, "", clientIPFromContext(ctx), false, err)
		err = a.failure(ctx, err)
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			err = newStatusError(http.StatusInternalServerError, err.Error(), err)
		}
		return nil, err
	}

	a.metrics.Inc(MetricLoginSuccess)
	a.emitAudit(ctx, AuditLogin, user, sess.ID, clientIPFromContext(ctx), true, nil)
	return newRedirect(a.target(redirectTo), http.StatusSeeOther, setCookie), nil
}

// Resolve reports the session state of r. Only adapter failures are errors,
// returned as 500 *StatusError values. Resolution.SetCookie must be written
// to the response when non-empty.
func (a *Authenticator) Resolve(r *http.Request) (session.Resolution, error) {
	start := time.Now()
	res, err := a.sessions.Resolve(r.Context(), cookieHeader(r))
	a.metrics.Observe(MetricResolveLatency, time.Since(start))
	if err != nil {
		return session.Resolution{}, a.failure(r.Context(), err)
	}

	switch res.State {
	case session.StateActive:
		a.metrics.Inc(MetricSessionResolved)
	case session.StateExpired:
		a.metrics.Inc(MetricSessionExpired)
		a.emitAudit(r.Context(), AuditSessionExpired, nil, "", requestIP(r), false, nil)
	default:
		a.metrics.Inc(MetricSessionMissing)
	}
	return res, nil
}

// RequireUserOrRedirect returns the user of r. Without an active session the
// error is a *Redirect to LoginPath with the original request URI in
// ReturnToParam; adapter failures are a 500 *StatusError.
//
// Refreshed cookies from sliding expiration are not propagated here; use
// Resolve or the middleware package when sliding expiration is enabled.
func (a *Authenticator) RequireUserOrRedirect(r *http.Request) (*identity.User, error) {
	res, err := a.Resolve(r)
	if err != nil {
		return nil, err
	}
	if !res.Active() {
		return nil, a.LoginRedirect(r, res.SetCookie)
	}
	return res.User, nil
}

// LoginRedirect builds the redirect sent to unauthenticated requests. The
// return-to parameter is merged into any query LoginPath already carries.
// setCookie, when non-empty, is attached so stale cookies get cleared.
func (a *Authenticator) LoginRedirect(r *http.Request, setCookie string) *Redirect {
	target, err := url.Parse(a.options.LoginPath)
	if err != nil {
		target = &url.URL{Path: "/"}
	}
	q := target.Query()
	q.Set(a.options.ReturnToParam, r.URL.RequestURI())
	target.RawQuery = q.Encode()

	redirect := newRedirect(target.String(), http.StatusFound, setCookie)
	redirect.reason = ErrUnauthenticated
	return redirect
}

// GetOptionalUser returns the user of r or nil when there is none.
func (a *Authenticator) GetOptionalUser(r *http.Request) (*identity.User, error) {
	res, err := a.Resolve(r)
	if err != nil {
		return nil, err
	}
	return res.User, nil
}

// RefreshSession re-issues the session cookie of r with a fresh deadline.
func (a *Authenticator) RefreshSession(r *http.Request) (string, error) {
	setCookie, err := a.sessions.Touch(r.Context(), cookieHeader(r))
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return "", a.failure(r.Context(), err)
	}
	return setCookie, err
}

// LogoutAndRedirect destroys the session of r and returns a 303 redirect to
// redirectTo that clears the cookie.
func (a *Authenticator) LogoutAndRedirect(r *http.Request, redirectTo string) (*Redirect, error) {
	ctx := r.Context()
	cleared, err := a.sessions.Destroy(ctx, cookieHeader(r))
	if err != nil {
		a.emitAudit(ctx, AuditLogout, nil, "", requestIP(r), false, err)
		return nil, a.failure(ctx, err)
	}

	a.metrics.Inc(MetricLogout)
	a.emitAudit(ctx, AuditLogout, nil, "", requestIP(r), true, nil)
	return newRedirect(a.target(redirectTo), http.StatusSeeOther, cleared), nil
}

// AccessConfig derives the access snapshot of user.
func (a *Authenticator) AccessConfig(user *identity.User) access.Config {
	return access.GenerateUserAccessControlConfig(user)
}

// CheckAccess reports whether user satisfies rule.
func (a *Authenticator) CheckAccess(user *identity.User, rule access.Rule) bool {
	ok := access.CheckAccess(access.GenerateUserAccessControlConfig(user), rule)
	if ok {
		a.metrics.Inc(MetricAccessGranted)
	} else {
		a.metrics.Inc(MetricAccessDenied)
	}
	return ok
}

// RequireAccess returns a 403 *StatusError wrapping access.ErrAccessDenied
// when user does not satisfy rule.
func (a *Authenticator) RequireAccess(ctx context.Context, user *identity.User, rule access.Rule) error {
	err := access.RequireAccess(access.GenerateUserAccessControlConfig(user), rule)
	if err == nil {
		a.metrics.Inc(MetricAccessGranted)
		return nil
	}

	a.metrics.Inc(MetricAccessDenied)
	a.emitAudit(ctx, AuditAccessDenied, user, "", clientIPFromContext(ctx), false, err)
	return newStatusError(http.StatusForbidden, http.StatusText(http.StatusForbidden), err)
}

// MenuAccess resolves every menu section for user.
func (a *Authenticator) MenuAccess(user *identity.User, sections access.MenuSections) map[string]access.MenuAccess {
	return access.GenerateMenuAccess(access.GenerateUserAccessControlConfig(user), sections)
}

// ValidateRule checks rule against the configured catalog. Without a catalog
// every rule is accepted.
func (a *Authenticator) ValidateRule(rule access.Rule) error {
	if a.catalog == nil {
		return nil
	}
	return a.catalog.ValidateRule(rule)
}

// ValidateMenu checks every menu candidate against the configured catalog.
func (a *Authenticator) ValidateMenu(sections access.MenuSections) error {
	if a.catalog == nil {
		return nil
	}
	return a.catalog.ValidateMenu(sections)
}

// MetricsSnapshot returns the current counters.
func (a *Authenticator) MetricsSnapshot() MetricsSnapshot {
	return a.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped on a full buffer.
func (a *Authenticator) AuditDropped() uint64 {
	return a.audit.Dropped()
}

// Close drains pending audit events. The adapter is owned by the host and is
// not closed.
func (a *Authenticator) Close() {
	a.audit.Close()
}

func (a *Authenticator) checkCatalog(user *identity.User) error {
	if a.catalog == nil || user == nil {
		return nil
	}
	for _, role := range user.Roles {
		if _, ok := a.catalog.Role(role.Name); !ok {
			return fmt.Errorf("%w: %s", access.ErrUnknownRole, role.Name)
		}
	}
	return nil
}

// failure maps session errors onto host-facing errors. Adapter failures
// become a 500 *StatusError carrying the adapter's message.
func (a *Authenticator) failure(ctx context.Context, err error) error {
	var adapterErr *session.AdapterError
	if !errors.As(err, &adapterErr) {
		return err
	}

	a.metrics.Inc(MetricAdapterFailure)
	a.logger.ErrorContext(ctx, "goguard: session adapter failed",
		slog.String("op", adapterErr.Op),
		slog.String("user_id", adapterErr.UserID.String()),
		slog.Any("error", adapterErr.Err),
	)
	a.emitAudit(ctx, AuditAdapterFailure, &identity.User{ID: adapterErr.UserID}, "", clientIPFromContext(ctx), false, err)

	return newStatusError(http.StatusInternalServerError, err.Error(), fmt.Errorf("%w: %w", ErrAdapterFailure, err))
}

func (a *Authenticator) target(redirectTo string) string {
	if isLocalPath(redirectTo) {
		return redirectTo
	}
	if a.options.DefaultRedirect != "" {
		return a.options.DefaultRedirect
	}
	return "/"
}

func (a *Authenticator) emitAudit(ctx context.Context, eventType string, user *identity.User, sessionID, ip string, success bool, err error) {
	if a.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: a.now(),
		EventType: eventType,
		SessionID: sessionID,
		Strategy:  a.sessions.Strategy().String(),
		IP:        ip,
		Success:   success,
	}
	if user != nil {
		event.UserID = user.ID.String()
	}
	if err != nil {
		event.Error = err.Error()
	}
	a.audit.Emit(ctx, event)
}
