package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gpms-labs/authcore"
)

type memoryStore struct {
	mu      sync.RWMutex
	byID    map[string]authcore.UserRecord
	byEmail map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byID:    make(map[string]authcore.UserRecord),
		byEmail: make(map[string]string),
	}
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (*authcore.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := s.byID[id]
	return &u, nil
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*authcore.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *memoryStore) FindByResetTokenHash(_ context.Context, hash string) (*authcore.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if u.ResetTokenHash != "" && u.ResetTokenHash == hash {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) Create(_ context.Context, record authcore.UserRecord) (*authcore.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = "user-" + record.Email
	}
	s.byID[record.ID] = record
	s.byEmail[record.Email] = record.ID
	return &record, nil
}

func (s *memoryStore) Update(_ context.Context, id string, update authcore.UserUpdate) (*authcore.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byID[id]
	if update.TwoFactorEnabled != nil {
		u.TwoFactorEnabled = *update.TwoFactorEnabled
	}
	if update.TwoFactorSecret != nil {
		u.TwoFactorSecret = *update.TwoFactorSecret
	}
	if update.TwoFactorTempSecret != nil {
		u.TwoFactorTempSecret = *update.TwoFactorTempSecret
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	s.byID[id] = u
	return &u, nil
}

func newGuardTestEngine(t *testing.T) (*authcore.Engine, *memoryStore) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	cfg := authcore.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("guard-access-secret")
	cfg.JWT.RefreshSecret = []byte("guard-refresh-secret")
	cfg.Password.Cost = 10

	store := newMemoryStore()
	engine, err := authcore.New().
		WithConfig(cfg).
		WithRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()})).
		WithCredentialStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := engine.Register(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return engine, store
}

func loginTokens(t *testing.T, engine *authcore.Engine) *authcore.TokenPair {
	t.Helper()

	result, err := engine.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return result.Tokens
}

func echoIdentity(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("expected identity in request context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(identity.Email))
	})
}

func TestRequireAuth(t *testing.T) {
	engine, _ := newGuardTestEngine(t)
	tokens := loginTokens(t, engine)
	handler := RequireAuth(engine)(echoIdentity(t))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "Bearer " + tokens.AccessToken, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.status == http.StatusOK && rec.Body.String() != "alice@example.com" {
				t.Fatalf("unexpected identity: %q", rec.Body.String())
			}
		})
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	engine, _ := newGuardTestEngine(t)
	tokens := loginTokens(t, engine)
	handler := RequireAuth(engine)(echoIdentity(t))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token must not pass the access guard, got %d", rec.Code)
	}
}

func TestGuardsKeepTokenKindsSeparate(t *testing.T) {
	engine, store := newGuardTestEngine(t)
	tokens := loginTokens(t, engine)

	stepUpToken := issueStepUpToken(t, engine, store)

	authGuard := RequireAuth(engine)(echoIdentity(t))
	stepUpGuard := RequireStepUp(engine)(echoIdentity(t))

	// Step-up token fails the access guard.
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+stepUpToken)
	rec := httptest.NewRecorder()
	authGuard.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("step-up token passed access guard: %d", rec.Code)
	}

	// Full token fails the step-up guard.
	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec = httptest.NewRecorder()
	stepUpGuard.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("full token passed step-up guard: %d", rec.Code)
	}

	// Step-up token passes the step-up guard.
	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+stepUpToken)
	rec = httptest.NewRecorder()
	stepUpGuard.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("step-up token rejected by step-up guard: %d", rec.Code)
	}
}

// issueStepUpToken marks the test user as 2FA-enabled directly in the store
// and logs in, capturing the resulting step-up token. The guard tests only
// need the token kind, not a code exchange.
func issueStepUpToken(t *testing.T, engine *authcore.Engine, store *memoryStore) string {
	t.Helper()

	store.mu.Lock()
	id := store.byEmail["alice@example.com"]
	u := store.byID[id]
	u.TwoFactorEnabled = true
	u.TwoFactorSecret = "JBSWY3DPEHPK3PXP"
	store.byID[id] = u
	store.mu.Unlock()

	result, err := engine.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !result.RequiresTwoFactor {
		t.Fatal("expected a step-up demand")
	}
	return result.TempToken
}
