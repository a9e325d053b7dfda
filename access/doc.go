// Package access evaluates role, permission, and attribute predicates against
// a user's derived access-control snapshot.
//
// # Semantics
//
// Roles and permissions match when the user holds at least one of the
// required values. Attributes match when every required key is present with
// an equal value. Categories present in a [Rule] are combined with AND, and a
// rule with no category grants access.
//
// # Architecture boundaries
//
// Everything here is pure: no I/O, no session lookup, no caching. A [Catalog]
// holds the application's declared roles and permissions for startup-time
// validation; YAML loaders read menu and rule declarations.
//
// # What this package must NOT do
//
//   - Import goGuard, session, or adapter.
//   - Cache a [Config] across requests.
package access
