package authcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gpms-labs/authcore/internal"
)

func newResetTestEngine(t *testing.T, store *mockCredentialStore) (*Engine, *mockDispatcher) {
	t.Helper()

	dispatcher := &mockDispatcher{}
	_, rdb := newTestRedis(t)

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithCredentialStore(store).
		WithDispatcher(dispatcher).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, dispatcher
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	engine, dispatcher := newResetTestEngine(t, newMockStore())

	// Identical outcome to the known-email case: nil, nothing dispatched.
	if err := engine.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	if len(dispatcher.resets) != 0 {
		t.Fatal("expected no dispatch for unknown email")
	}
}

func TestForgotPasswordStoresHashOnly(t *testing.T) {
	store := newMockStore()
	engine, dispatcher := newResetTestEngine(t, store)
	res := registerTestUser(t, engine, "alice@example.com", "correct-horse")

	if err := engine.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	rawToken := dispatcher.lastReset(t)
	user := store.get(res.ID)
	if user.ResetTokenHash == "" {
		t.Fatal("expected reset token hash persisted")
	}
	if user.ResetTokenHash == rawToken {
		t.Fatal("raw token must never be persisted")
	}
	if user.ResetTokenHash != internal.HashResetToken(rawToken) {
		t.Fatal("stored hash must match the dispatched token")
	}
	if !user.ResetExpiresAt.After(time.Now()) {
		t.Fatal("expected a future expiry")
	}
}

func TestResetPassword(t *testing.T) {
	store := newMockStore()
	engine, dispatcher := newResetTestEngine(t, store)
	res := registerTestUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	rawToken := dispatcher.lastReset(t)

	if err := engine.ResetPassword(context.Background(), rawToken, "new-password-1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	user := store.get(res.ID)
	if user.ResetTokenHash != "" || !user.ResetExpiresAt.IsZero() {
		t.Fatal("expected reset fields cleared")
	}

	// All outstanding sessions are revoked.
	if _, err := engine.Refresh(context.Background(), login.Tokens.RefreshToken); !errors.Is(err, ErrRefreshRevoked) {
		t.Fatalf("expected ErrRefreshRevoked, got %v", err)
	}

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := engine.Login(context.Background(), "alice@example.com", "new-password-1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	// A redeemed token is spent.
	if err := engine.ResetPassword(context.Background(), rawToken, "another-password-1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on reuse, got %v", err)
	}
}

func TestResetPasswordInvalidToken(t *testing.T) {
	engine, _ := newResetTestEngine(t, newMockStore())

	for _, token := range []string{"", "not-a-token"} {
		if err := engine.ResetPassword(context.Background(), token, "new-password-1"); !errors.Is(err, ErrResetTokenInvalid) {
			t.Fatalf("token %q: expected ErrResetTokenInvalid, got %v", token, err)
		}
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	store := newMockStore()
	engine, dispatcher := newResetTestEngine(t, store)
	res := registerTestUser(t, engine, "alice@example.com", "correct-horse")

	if err := engine.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	rawToken := dispatcher.lastReset(t)

	// Age the token past its window.
	if _, err := store.Update(context.Background(), res.ID, UserUpdate{
		ResetExpiresAt: Set(time.Now().Add(-time.Minute)),
	}); err != nil {
		t.Fatalf("seed expiry: %v", err)
	}

	// Expired and unknown collapse to the same error.
	if err := engine.ResetPassword(context.Background(), rawToken, "new-password-1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for expired token, got %v", err)
	}
}

func TestForgotPasswordReplacesOutstandingToken(t *testing.T) {
	engine, dispatcher := newResetTestEngine(t, newMockStore())
	registerTestUser(t, engine, "alice@example.com", "correct-horse")

	if err := engine.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	first := dispatcher.lastReset(t)

	if err := engine.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("second ForgotPassword failed: %v", err)
	}
	second := dispatcher.lastReset(t)
	if first == second {
		t.Fatal("expected a fresh token per request")
	}

	// Only the latest token redeems.
	if err := engine.ResetPassword(context.Background(), first, "new-password-1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected superseded token rejected, got %v", err)
	}
	if err := engine.ResetPassword(context.Background(), second, "new-password-1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
}
