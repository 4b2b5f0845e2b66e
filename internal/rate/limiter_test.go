package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), cfg), mr
}

func TestLoginBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, Config{
		MaxLoginAttempts: 3,
		LoginCooldown:    time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.CheckLogin(ctx, "alice@example.com", ""); err != nil {
			t.Fatalf("attempt %d: unexpected %v", i, err)
		}
		if err := limiter.IncrementLogin(ctx, "alice@example.com", ""); err != nil {
			t.Fatalf("attempt %d: increment failed: %v", i, err)
		}
	}

	if err := limiter.CheckLogin(ctx, "alice@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited after budget spent, got %v", err)
	}

	// Another identifier is unaffected.
	if err := limiter.CheckLogin(ctx, "bob@example.com", ""); err != nil {
		t.Fatalf("unexpected error for fresh identifier: %v", err)
	}
}

func TestLoginBudgetResets(t *testing.T) {
	limiter, _ := newTestLimiter(t, Config{
		MaxLoginAttempts: 2,
		LoginCooldown:    time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_ = limiter.IncrementLogin(ctx, "alice@example.com", "")
	}
	if err := limiter.CheckLogin(ctx, "alice@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	if err := limiter.ResetLogin(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("ResetLogin failed: %v", err)
	}
	if err := limiter.CheckLogin(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("expected cleared budget, got %v", err)
	}
}

func TestLoginBudgetExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, Config{
		MaxLoginAttempts: 1,
		LoginCooldown:    time.Minute,
	})
	ctx := context.Background()

	_ = limiter.IncrementLogin(ctx, "alice@example.com", "")
	if err := limiter.CheckLogin(ctx, "alice@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := limiter.CheckLogin(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("expected fresh window after cooldown, got %v", err)
	}
}

func TestLoginIPThrottle(t *testing.T) {
	limiter, _ := newTestLimiter(t, Config{
		EnableIPThrottle: true,
		MaxLoginAttempts: 2,
		LoginCooldown:    time.Minute,
	})
	ctx := context.Background()

	// Different emails, one source address.
	_ = limiter.IncrementLogin(ctx, "alice@example.com", "10.0.0.1")
	_ = limiter.IncrementLogin(ctx, "bob@example.com", "10.0.0.1")

	if err := limiter.CheckLogin(ctx, "carol@example.com", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected IP budget spent, got %v", err)
	}
	if err := limiter.CheckLogin(ctx, "carol@example.com", "10.0.0.2"); err != nil {
		t.Fatalf("expected other IP unaffected, got %v", err)
	}
}

func TestRegisterBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, Config{
		MaxRegisterAttempts: 2,
		RegisterCooldown:    time.Hour,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.CheckRegister(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("attempt %d: unexpected %v", i, err)
		}
	}
	if err := limiter.CheckRegister(ctx, "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// Without a client IP there is nothing to key on; the check passes.
	if err := limiter.CheckRegister(ctx, ""); err != nil {
		t.Fatalf("expected pass without IP, got %v", err)
	}
}

func TestDisabledBudgets(t *testing.T) {
	limiter, _ := newTestLimiter(t, Config{})
	ctx := context.Background()

	if err := limiter.CheckLogin(ctx, "alice@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("expected no-op with zero budget, got %v", err)
	}
	if err := limiter.IncrementLogin(ctx, "alice@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("expected no-op increment, got %v", err)
	}
	if err := limiter.CheckRegister(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("expected no-op register check, got %v", err)
	}
}
