// Package session manages the lifecycle of cookie-identified sessions.
//
// # Strategies
//
// A [Manager] is built for exactly one [Strategy]:
//
//   - [StrategyDefault] and [StrategyCookieOnly] keep the whole user inside the
//     signed cookie. Resolving such a session never touches an adapter.
//   - [StrategyInMemory] keeps users in a process-local adapter.Memory.
//   - [StrategyCustomAdapter] delegates to a host adapter, wrapped with
//     adapter.Guard so adapter panics surface as errors.
//
// # Lifecycle
//
// Sessions move from [StateNone] to [StateActive] on Create. They end in
// [StateExpired] (deadline passed, record gone, or superseded by a newer
// single-session login) or are destroyed by Destroy, after which the cleared
// cookie resolves to [StateNone] again. Missing, expired, and tampered
// cookies all resolve to "no user"; only adapter failures are errors, reported
// as [*AdapterError].
//
// # What this package must NOT do
//
//   - Import goGuard or access (no upward imports).
//   - Write HTTP responses. Callers receive Set-Cookie header values.
package session
