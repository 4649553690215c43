package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okunev/chirp/internal/auth"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthMiddleware resolves the signed user_id cookie set at login and puts the
// user id on the request context. Used by the websocket endpoint; the REST
// surface takes explicit ids in each request.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("user_id")
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		userIDStr, err := auth.VerifyCookie(cookie.Value)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		userID, err := strconv.Atoi(userIDStr)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
