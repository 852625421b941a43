// Package session mints and verifies anonymous client tokens.
//
// The app has no accounts: a client is whoever holds a signed token. The
// token's subject keys the like ledger and preference storage. Losing the
// token loses both, which is accepted behaviour.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ctxKeyClientID struct{}

func ClientIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyClientID{}).(string)
	return v, ok
}

// WithClientID injects a client id into context. Useful for testing.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyClientID{}, id)
}

// Manager signs and parses anonymous client tokens (HS256).
type Manager struct {
	Secret []byte
}

// Issue mints a token with a fresh random subject. Tokens do not expire;
// they stand in for the browser-profile identity the client would otherwise
// keep in local storage.
func (m Manager) Issue() (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.Secret)
}

// Parse validates a token and returns its client id.
func (m Manager) Parse(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireClient validates the bearer token and injects the client id.
// Requests without a valid token are rejected with 401.
func RequireClient(m Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			clientID, err := m.Parse(tok)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
		})
	}
}

// OptionalClient injects the client id when a valid token is present and
// passes the request through untouched otherwise.
func OptionalClient(m Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerToken(r); tok != "" {
				if clientID, err := m.Parse(tok); err == nil {
					r = r.WithContext(WithClientID(r.Context(), clientID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
