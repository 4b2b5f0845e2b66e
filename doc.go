// Package authcore provides the authentication and session-lifecycle engine
// behind the GPMS Todo backend: credential verification, JWT access/refresh
// token issuance with single-use rotation, versioned revocation, a TOTP
// step-up state machine, and password-reset/change/email-change flows backed
// by a Redis TTL store.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// the [CredentialStore] and [NotificationDispatcher] collaborator
// interfaces, and value types (TokenPair, LoginResult, Profile). Audit
// dispatch, metrics storage, and throttle primitives live under internal/
// and are never exported directly.
//
// # Security contract
//
// Cryptographic verification failures collapse to generic unauthorized
// errors; unknown-email and wrong-password login failures are
// indistinguishable; ForgotPassword never reveals account existence. The
// refresh flow's session check-and-delete is atomic per key, so a replayed
// refresh token can win at most once.
package authcore
