package password

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost      = 10
	maxCost      = 16
	defaultSlots = 8
	minPassBytes = 8
	maxPassBytes = 72 // bcrypt truncates beyond 72 bytes
)

// Config holds bcrypt tuning parameters.
type Config struct {
	// Cost is the bcrypt work factor (log2 rounds).
	Cost int
	// MaxConcurrent bounds in-flight hash/verify operations so CPU-bound
	// hashing cannot monopolize the process. Zero selects the default.
	MaxConcurrent int
}

// Hasher performs bcrypt hashing and verification behind a concurrency
// bound. Hashers are immutable after creation and safe for concurrent use.
type Hasher struct {
	cost  int
	slots chan struct{}
}

// NewHasher validates the configuration and returns a ready Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.Cost < minCost || cfg.Cost > maxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	if cfg.MaxConcurrent < 0 {
		return nil, errors.New("invalid concurrency bound")
	}
	slots := cfg.MaxConcurrent
	if slots == 0 {
		slots = defaultSlots
	}
	return &Hasher{
		cost:  cfg.Cost,
		slots: make(chan struct{}, slots),
	}, nil
}

// Hash derives a salted bcrypt digest from the plaintext. It blocks while
// all worker slots are busy, honoring ctx cancellation while waiting.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) < minPassBytes {
		return "", errors.New("password too short")
	}
	if len(plaintext) > maxPassBytes {
		return "", errors.New("password too long")
	}

	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. Any
// comparison failure reads as a plain mismatch; corrupt digests are not
// distinguished from wrong passwords.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.release()

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (h *Hasher) acquire(ctx context.Context) error {
	select {
	case h.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hasher) release() {
	<-h.slots
}
