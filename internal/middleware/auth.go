package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// SessionCookieName is the cookie carrying the opaque session credential.
const SessionCookieName = "practica_session"

// SessionResolver resolves a session ID to the owning user ID.
type SessionResolver interface {
	Get(ctx context.Context, sid string) (int32, error)
}

type SessionAuth struct {
	sessions SessionResolver
}

func NewSessionAuth(sessions SessionResolver) *SessionAuth {
	return &SessionAuth{sessions: sessions}
}

// Middleware validates the session cookie and attaches the user ID to the
// request context.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := a.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(ctx context.Context) int32 {
	id, _ := ctx.Value(UserIDKey).(int32)
	return id
}

// WithUserID returns a context carrying the user ID, as the auth middleware
// would set it.
func WithUserID(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// SessionID returns the caller's session cookie value, or "" when absent.
func SessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
