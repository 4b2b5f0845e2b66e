// Package rate provides Redis-backed fixed-window rate limit primitives for
// security-sensitive authentication workflows.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - al:  — login per-email
//   - ali: — login per-IP
//   - arg: — registration per-IP
//
// # What this package must NOT do
//
//   - Implement enumeration-sensitive responses (callers decide wording).
//   - Be imported outside the authcore module.
package rate
