// Package internal contains helper utilities that are intentionally private
// to authcore, including reset-token generation and temp-password helpers.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - metrics — lock-free counters
//   - rate — Redis-backed login/registration throttle primitives
//
// # What this package must NOT do
//
//   - Export types that appear in the public authcore API.
//   - Be imported by any package outside the authcore module.
package internal
