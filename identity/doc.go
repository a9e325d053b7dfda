// Package identity defines the user values shared by the session, adapter, and
// access packages.
//
// # Architecture boundaries
//
// This package is a leaf: it has no I/O and imports nothing from goGuard. It owns
// the JSON form of [User], which is the payload written to adapters and embedded in
// cookie-only session cookies.
package identity
