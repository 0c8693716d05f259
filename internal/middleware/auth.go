// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/Erespul/flashcards.github.io/internal/models"
	"github.com/Erespul/flashcards.github.io/internal/session"
)

type ctxKey string

const userKey ctxKey = "user"

// Sessions is the lookup the auth middleware needs from the session
// manager.
type Sessions interface {
	Get(token string) (models.SessionUser, bool)
}

// RequireSession rejects requests without a valid session cookie with
// 401 and otherwise stores the session's user in the request context,
// so handlers downstream can rely on an authenticated identity.
func RequireSession(sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				http.Error(w, "please log in", http.StatusUnauthorized)
				return
			}
			user, ok := sessions.Get(cookie.Value)
			if !ok {
				http.Error(w, "please log in", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the session user stored by
// RequireSession. The second result is false when the request carried
// no authenticated identity.
func GetUserFromContext(ctx context.Context) (models.SessionUser, bool) {
	user, ok := ctx.Value(userKey).(models.SessionUser)
	return user, ok
}
