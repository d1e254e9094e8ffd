package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cardstudio/internal/account/repository"
	"cardstudio/pkg/httpjson"
	"cardstudio/pkg/logger"
	"cardstudio/pkg/token"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller attached to the request context by Auth.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// IdentityFrom returns the caller resolved by the Auth middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Auth gates protected routes: it extracts the bearer token, verifies it
// statelessly, resolves the embedded account id, and attaches the identity
// to the request context. It is a pure gate and never mutates stores.
func Auth(secret []byte, accounts repository.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The browser's WebSocket API doesn't support custom headers, so
			// tokens for /ws arrive in the query string.
			tokenString := r.URL.Query().Get("token")
			if tokenString == "" {
				authHeader := r.Header.Get("Authorization")
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
			if tokenString == "" {
				httpjson.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}

			accountID, err := token.Verify(tokenString, secret)
			if err != nil {
				logger.Sugar.Debugf("Invalid token: %v", err)
				httpjson.Error(w, http.StatusUnauthorized, "Token invalid or expired")
				return
			}

			acc, err := accounts.FindByID(accountID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					httpjson.Error(w, http.StatusUnauthorized, "Invalid token user")
					return
				}
				httpjson.ServerError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, Identity{
				ID:    acc.ID,
				Name:  acc.Name,
				Email: acc.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
