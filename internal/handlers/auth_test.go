package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"practica/internal/middleware"
	"practica/internal/models"
	"practica/internal/services"
)

type stubAuthService struct {
	user     *models.User
	sid      string
	loginErr error

	registerErr error
	logoutErr   error

	lastSID string
}

func (s *stubAuthService) Register(ctx context.Context, currentSID string, creds models.Credentials) (*models.User, error) {
	s.lastSID = currentSID
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.user, nil
}

func (s *stubAuthService) Login(ctx context.Context, currentSID string, creds models.Credentials) (*models.User, string, error) {
	s.lastSID = currentSID
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.user, s.sid, nil
}

func (s *stubAuthService) Logout(ctx context.Context, sid string) error {
	s.lastSID = sid
	return s.logoutErr
}

func TestLoginSetsSessionCookie(t *testing.T) {
	auth := &stubAuthService{
		user: &models.User{UserID: 7, UserName: "clara"},
		sid:  "deadbeef",
	}
	handler := NewAuthHandler(auth, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"user_name":"clara","password":"pw"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["user_id"] != float64(7) || body["user_name"] != "clara" {
		t.Errorf("unexpected identity in response: %v", body)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != middleware.SessionCookieName || cookie.Value != "deadbeef" {
		t.Errorf("unexpected session cookie: %v", cookie)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	auth := &stubAuthService{loginErr: &services.UnauthorizedError{Message: "Invalid login credentials"}}
	handler := NewAuthHandler(auth, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"user_name":"clara","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Invalid login credentials" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestLoginWhileLoggedIn(t *testing.T) {
	auth := &stubAuthService{loginErr: &services.ForbiddenError{Message: "Already logged in"}}
	handler := NewAuthHandler(auth, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"user_name":"clara","password":"pw"}`))
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "oldsid"})
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if auth.lastSID != "oldsid" {
		t.Errorf("expected session cookie to reach the service, got %q", auth.lastSID)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	auth := &stubAuthService{}
	handler := NewAuthHandler(auth, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "somesid"})
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth.lastSID != "somesid" {
		t.Errorf("expected logout for sid %q, got %q", "somesid", auth.lastSID)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Errorf("expected an expired session cookie, got %v", cookies)
	}
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"success", nil, http.StatusOK, ""},
		{"duplicate name", &services.ConflictError{Message: "A user with that name already exists"}, http.StatusConflict, "A user with that name already exists"},
		{"name too long", &services.ValidationError{Message: "User name too long"}, http.StatusBadRequest, "User name too long"},
		{"while logged in", &services.ForbiddenError{Message: "Cannot create a new user while logged in"}, http.StatusForbidden, "Cannot create a new user while logged in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthService{
				user:        &models.User{UserID: 3, UserName: "robert"},
				registerErr: tt.err,
			}
			handler := NewAuthHandler(auth, time.Hour)

			req := httptest.NewRequest(http.MethodPost, "/api/create_user",
				strings.NewReader(`{"user_name":"robert","password":"pw"}`))
			rec := httptest.NewRecorder()
			handler.CreateUser(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			body := decodeBody(t, rec)
			if tt.wantError != "" {
				if body["error"] != tt.wantError {
					t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
				}
				return
			}
			user := body["user"].(map[string]interface{})
			if user["user_id"] != float64(3) || user["user_name"] != "robert" {
				t.Errorf("unexpected user in response: %v", user)
			}
		})
	}
}
