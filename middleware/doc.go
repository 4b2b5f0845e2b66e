// Package middleware exposes HTTP guards built on top of authcore.Engine
// token validation.
//
// # Guards
//
//   - [RequireAuth] — full access token, second factor satisfied.
//   - [RequireStepUp] — step-up token only, for the 2FA completion route.
//
// Each guard reads the Authorization header, asks the engine to validate
// the bearer token, and injects the resulting identity into the request
// context for handlers to read via [IdentityFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// the engine's validators.
package middleware
