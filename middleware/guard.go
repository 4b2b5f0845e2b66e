package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gpms-labs/authcore"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity injected by a guard, if any.
func IdentityFromContext(ctx context.Context) (*authcore.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*authcore.Identity)
	return id, ok
}

// RequireAuth admits only requests carrying a full access token. Step-up
// tokens are rejected here; they are valid solely for the 2FA completion
// route behind [RequireStepUp].
func RequireAuth(engine *authcore.Engine) func(http.Handler) http.Handler {
	return guard(engine, func(e *authcore.Engine, token string) (*authcore.Identity, error) {
		return e.Validate(token)
	})
}

// RequireStepUp admits only requests carrying a step-up token issued by
// Login for accounts awaiting their second factor.
func RequireStepUp(engine *authcore.Engine) func(http.Handler) http.Handler {
	return guard(engine, func(e *authcore.Engine, token string) (*authcore.Identity, error) {
		return e.ValidateStepUp(token)
	})
}

func guard(engine *authcore.Engine, validate func(*authcore.Engine, string) (*authcore.Identity, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := validate(engine, token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
