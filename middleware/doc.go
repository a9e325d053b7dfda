// Package middleware adapts goGuard.Authenticator to net/http handler chains.
//
// # Guards
//
//   - [RequireUser] redirects requests without an active session to the login page.
//   - [OptionalUser] resolves the user when there is one and never redirects.
//   - [RequireAccess] and [AccessByPath] answer 403 when the user fails a rule.
//
// Every guard writes refreshed or clearing Set-Cookie headers produced by
// session resolution and injects the resolved user into the request context,
// readable with [UserFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Authenticator calls. It does NOT
// implement session or access logic itself.
//
// # What this package must NOT do
//
//   - Parse or sign cookies directly (delegates to the Authenticator).
//   - Touch storage adapters.
//   - Cache users or access decisions across requests.
package middleware
