package middleware

import (
	"fmt"
	"net/http"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/access"
)

// RequireAccess answers 403 unless the user satisfies rule. A user already
// injected by an outer guard is reused; otherwise the session is resolved as
// RequireUser does.
//
// RequireAccess panics when rule names roles or permissions unknown to the
// Authenticator's catalog, so typos surface at startup.
func RequireAccess(auth *goGuard.Authenticator, rule access.Rule) func(http.Handler) http.Handler {
	if auth != nil {
		if err := auth.ValidateRule(rule); err != nil {
			panic(fmt.Sprintf("middleware: invalid access rule: %v", err))
		}
	}

	return func(next http.Handler) http.Handler {
		check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			user, _ := UserFromContext(r.Context())
			if err := auth.RequireAccess(r.Context(), user, rule); err != nil {
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
		resolved := RequireUser(auth)(check)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); ok {
				check.ServeHTTP(w, r)
				return
			}
			resolved.ServeHTTP(w, r)
		})
	}
}

// AccessByPath applies the rule registered for the request's exact URL path,
// typically loaded with access.LoadRules. Paths without a rule pass through
// untouched.
func AccessByPath(auth *goGuard.Authenticator, rules map[string]access.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := make(map[string]http.Handler, len(rules))
		for path, rule := range rules {
			guarded[path] = RequireAccess(auth, rule)(next)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h, ok := guarded[r.URL.Path]; ok {
				h.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
