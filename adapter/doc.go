// Package adapter defines the storage contract used by the non-cookie session
// strategies, plus the built-in in-memory implementation.
//
// # Contract
//
// An [Adapter] is keyed by [identity.UserID] and stores whole [identity.User]
// values. Every operation returns a (value, error) pair; backend faults such as
// I/O or serialization failures come back as errors and never as panics. Use
// [Guard] to enforce that for adapters supplied by a host application.
//
// Single-session enforcement needs the [SessionBinder] capability. It is an
// explicit interface rather than something assumed to follow from Set.
//
// # Implementations
//
//   - [Memory]: process-lifetime map, optional TTL.
//   - redisstore.Store: go-redis backed.
//   - sqlitestore.Store: file-backed SQLite.
//
// # What this package must NOT do
//
//   - Import goGuard, session, or cookie (no upward imports).
//   - Interpret roles or permissions.
package adapter
