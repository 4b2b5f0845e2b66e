// Package notify implements asynchronous delivery of account emails
// (password reset, provisioning) behind a fire-and-forget queue.
//
// # Delivery model
//
// The engine enqueues a message and returns immediately; a worker goroutine
// owns delivery through a caller-supplied [Mailer]. Failed deliveries are
// retried with exponential backoff up to a bounded attempt count, then
// dropped and counted. Delivery failures never propagate to the auth
// operation that triggered them.
//
// # What this package must NOT do
//
//   - Block the caller on SMTP round trips.
//   - Import authcore or any sibling package.
//   - Persist messages — the queue is in-process and best-effort.
package notify
