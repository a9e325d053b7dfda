// Package goGuard provides session-based authentication and role, permission,
// and attribute access control for server-rendered Go web applications.
//
// A host builds an [Authenticator] once at startup:
//
//	auth, err := goGuard.New().
//		WithOptions(opts).
//		WithLogger(logger).
//		Build()
//
// and then calls [Authenticator.LoginAndRedirect] after verifying credentials,
// [Authenticator.RequireUserOrRedirect] or [Authenticator.GetOptionalUser] on
// each request, and [Authenticator.LogoutAndRedirect] at logout. Access
// decisions go through [Authenticator.RequireAccess] and
// [Authenticator.MenuAccess].
//
// # Architecture boundaries
//
// goGuard is the public facade. Storage lives behind adapter.Adapter, the
// signed cookie in package cookie, the strategy state machine in package
// session, and pure access predicates in package access. The facade maps
// their errors onto [StatusError] and [Redirect] values hosts can render.
//
// # What this package must NOT do
//
//   - Verify credentials, hash passwords, or issue tokens for other services.
//   - Log cookie values, secrets, or user attributes.
//   - Cache access.Config across requests; it is derived per call.
package goGuard
