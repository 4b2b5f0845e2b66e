package authcore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("test-access-secret")
	cfg.JWT.RefreshSecret = []byte("test-refresh-secret")
	// Keep hashing cheap in tests.
	cfg.Password.Cost = 10
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, store CredentialStore) *Engine {
	t.Helper()

	_, rdb := newTestRedis(t)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithCredentialStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

// mockCredentialStore is an in-memory CredentialStore for engine tests.
type mockCredentialStore struct {
	mu      sync.RWMutex
	byID    map[string]UserRecord
	byEmail map[string]string

	failAll bool
}

func newMockStore() *mockCredentialStore {
	return &mockCredentialStore{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
	}
}

func (m *mockCredentialStore) FindByEmail(_ context.Context, email string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failAll {
		return nil, fmt.Errorf("store down")
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := m.byID[id]
	return &u, nil
}

func (m *mockCredentialStore) FindByID(_ context.Context, id string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failAll {
		return nil, fmt.Errorf("store down")
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *mockCredentialStore) FindByResetTokenHash(_ context.Context, tokenHash string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failAll {
		return nil, fmt.Errorf("store down")
	}
	for _, u := range m.byID {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockCredentialStore) Create(_ context.Context, record UserRecord) (*UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, fmt.Errorf("store down")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.byID[record.ID] = record
	m.byEmail[record.Email] = record.ID
	return &record, nil
}

func (m *mockCredentialStore) Update(_ context.Context, id string, update UserUpdate) (*UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, fmt.Errorf("store down")
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}

	if update.Email != nil {
		delete(m.byEmail, u.Email)
		u.Email = *update.Email
		m.byEmail[u.Email] = u.ID
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.TwoFactorEnabled != nil {
		u.TwoFactorEnabled = *update.TwoFactorEnabled
	}
	if update.TwoFactorSecret != nil {
		u.TwoFactorSecret = *update.TwoFactorSecret
	}
	if update.TwoFactorTempSecret != nil {
		u.TwoFactorTempSecret = *update.TwoFactorTempSecret
	}
	if update.ResetTokenHash != nil {
		u.ResetTokenHash = *update.ResetTokenHash
	}
	if update.ResetExpiresAt != nil {
		u.ResetExpiresAt = *update.ResetExpiresAt
	}
	if update.MustChangePassword != nil {
		u.MustChangePassword = *update.MustChangePassword
	}
	if update.MustSetupTwoFactor != nil {
		u.MustSetupTwoFactor = *update.MustSetupTwoFactor
	}

	m.byID[id] = u
	return &u, nil
}

func (m *mockCredentialStore) get(id string) UserRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byID[id]
}

// mockDispatcher records notification calls for assertions.
type mockDispatcher struct {
	mu     sync.Mutex
	resets []string // raw tokens, in order
	welc   []string // temp passwords, in order
}

func (d *mockDispatcher) SendPasswordReset(_ string, rawToken string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets = append(d.resets, rawToken)
}

func (d *mockDispatcher) SendWelcomeEmail(_ string, tempPassword string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.welc = append(d.welc, tempPassword)
}

func (d *mockDispatcher) lastReset(t *testing.T) string {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.resets) == 0 {
		t.Fatal("expected a password reset dispatch")
	}
	return d.resets[len(d.resets)-1]
}

func registerTestUser(t *testing.T, engine *Engine, email, password string) *RegisterResult {
	t.Helper()

	res, err := engine.Register(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return res
}

// currentTOTPCode computes the code a real authenticator app would show for
// the secret right now.
func currentTOTPCode(t *testing.T, engine *Engine, secretBase32 string) string {
	t.Helper()
	return totpCodeAt(t, engine, secretBase32, time.Now())
}

func totpCodeAt(t *testing.T, engine *Engine, secretBase32 string, at time.Time) string {
	t.Helper()

	secret, err := decodeTOTPSecret(secretBase32)
	if err != nil {
		t.Fatalf("decode secret: %v", err)
	}
	cfg := engine.config.TOTP
	counter := at.Unix() / int64(cfg.Period)
	code, err := hotpCode(secret, counter, cfg.Digits, cfg.Algorithm)
	if err != nil {
		t.Fatalf("hotp: %v", err)
	}
	return code
}
