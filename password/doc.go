// Package password implements password hashing and verification with bcrypt.
//
// # Work factor
//
// The cost parameter is tunable (default 12). Hashing is deliberately
// CPU-bound; the [Hasher] bounds concurrent hashing work with a semaphore so
// a burst of logins cannot starve unrelated requests.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// onboarding rules) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other authcore package.
//   - Log plaintext passwords at runtime.
package password
