// Package cookie signs and verifies the session cookie.
//
// The cookie value is an HS256 JWT carrying the session id, the user id and,
// for cookie-only sessions, the full user. Secrets rotate: the first secret
// signs, every secret verifies.
//
// # What this package must NOT do
//
//   - Touch storage adapters.
//   - Log cookie values or secrets.
package cookie
