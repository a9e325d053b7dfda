package middleware

import (
	"context"
	"errors"
	"net/http"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/identity"
)

type userContextKey struct{}

// UserFromContext returns the user injected by a guard.
func UserFromContext(ctx context.Context) (*identity.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*identity.User)
	return user, ok && user != nil
}

// WithUser attaches user to ctx the way the guards do.
func WithUser(ctx context.Context, user *identity.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

type guardMode uint8

const (
	modeRequired guardMode = iota
	modeOptional
)

// RequireUser rejects requests without an active session with a redirect to
// the configured login page.
func RequireUser(auth *goGuard.Authenticator) func(http.Handler) http.Handler {
	return guard(auth, modeRequired)
}

func guard(auth *goGuard.Authenticator, mode guardMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			res, err := auth.Resolve(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			if res.SetCookie != "" {
				w.Header().Add("Set-Cookie", res.SetCookie)
			}

			if !res.Active() {
				if mode == modeRequired {
					auth.LoginRedirect(r, "").ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), res.User)))
		})
	}
}

// WriteError renders errors returned by the Authenticator: redirects are
// followed, status errors keep their status, anything else is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var redirect *goGuard.Redirect
	if errors.As(err, &redirect) {
		redirect.ServeHTTP(w, r)
		return
	}
	var statusErr *goGuard.StatusError
	if errors.As(err, &statusErr) {
		statusErr.ServeHTTP(w, r)
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
