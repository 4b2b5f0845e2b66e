// Package jwt manages access, refresh, and step-up token issuance and
// verification using distinct signing secrets and strict validation
// semantics suitable for low-latency authentication paths.
package jwt
