package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

// TokenVerifier resolves a session token to the id of the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type AuthConfig struct {
	// DevMode accepts the X-User-ID header in place of a session token.
	DevMode    bool
	Verifier   TokenVerifier
	CookieName string
}

type Auth struct {
	cfg AuthConfig
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if !cfg.DevMode && cfg.Verifier == nil {
		return nil, fmt.Errorf("middleware: Verifier is required when DevMode is false")
	}
	return &Auth{cfg: cfg}, nil
}

// Require rejects requests without a valid session and stores the caller's
// user id in the request context.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.DevMode {
			if userID := r.Header.Get("X-User-ID"); userID != "" {
				next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), userID)))
				return
			}
			if a.cfg.Verifier == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header required in dev mode")
				return
			}
		}

		token, ok := a.token(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "session token required")
			return
		}

		userID, err := a.cfg.Verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), userID)))
	})
}

// token reads the session cookie, falling back to a Bearer Authorization header.
func (a *Auth) token(r *http.Request) (string, bool) {
	if a.cfg.CookieName != "" {
		if c, err := r.Cookie(a.cfg.CookieName); err == nil && c.Value != "" {
			return c.Value, true
		}
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}
