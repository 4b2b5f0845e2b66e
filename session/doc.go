// Package session provides the Redis-backed TTL store behind refresh-token
// rotation and per-user revocation versions.
//
// # Data model
//
// Two key families, both naturally expiring:
//
//   - rt:{user}:{tokenID} — one marker per issued, unconsumed refresh token.
//     Key existence is the sole proof of refresh-token validity.
//   - ver:{user} — monotonically increasing revocation version counter.
//     Missing key reads as version 0.
//
// No background garbage collection exists or is needed; storage is bounded
// by active sessions.
//
// # Atomicity
//
// ConsumeRefreshSession runs an EXISTS+DEL Lua script so the existence check
// and deletion are one indivisible unit per key: of any number of concurrent
// consumers presenting the same token, at most one wins. BumpVersion runs
// INCR+PEXPIRE in a script so the counter and its TTL move together.
//
// # Architecture boundaries
//
// This package owns Redis operations only. It does NOT interpret JWT tokens
// or enforce authentication policy — those responsibilities belong to the
// Engine.
//
// # What this package must NOT do
//
//   - Import authcore or jwt (no upward imports).
//   - Store plaintext tokens or secrets as values.
package session
