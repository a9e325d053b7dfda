package middleware

import (
	"net/http"

	goGuard "github.com/MrEthical07/goGuard"
)

// OptionalUser resolves the session when present and passes every request
// through. Adapter failures are still answered with a 500.
func OptionalUser(auth *goGuard.Authenticator) func(http.Handler) http.Handler {
	return guard(auth, modeOptional)
}
