package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"practica/internal/middleware"
	"practica/internal/models"
)

type authService interface {
	Register(ctx context.Context, currentSID string, creds models.Credentials) (*models.User, error)
	Login(ctx context.Context, currentSID string, creds models.Credentials) (*models.User, string, error)
	Logout(ctx context.Context, sid string) error
}

type AuthHandler struct {
	auth       authService
	sessionTTL time.Duration
}

func NewAuthHandler(auth authService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: sessionTTL}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, sid, err := h.auth.Login(r.Context(), middleware.SessionID(r), creds)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(sid, int(h.sessionTTL.Seconds())))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"user_id":   user.UserID,
		"user_name": user.UserName,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r)
	if sid == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.auth.Logout(r.Context(), sid); err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), middleware.SessionID(r), creds)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"user_id":   user.UserID,
			"user_name": user.UserName,
		},
	})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
