package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"practica/internal/models"
	"practica/internal/repository"
)

type userStore interface {
	Create(ctx context.Context, userName, passwordHash string) (*models.User, error)
	GetByName(ctx context.Context, userName string) (*models.User, error)
}

type sessionIssuer interface {
	Create(ctx context.Context, userID int32) (string, error)
	Get(ctx context.Context, sid string) (int32, error)
	Destroy(ctx context.Context, sid string) error
}

type AuthService struct {
	userRepo userStore
	sessions sessionIssuer
}

func NewAuthService(userRepo userStore, sessions sessionIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

// Register creates a new account. currentSID is the caller's session cookie
// value, if any; registering while logged in is forbidden.
func (s *AuthService) Register(ctx context.Context, currentSID string, creds models.Credentials) (*models.User, error) {
	if s.isLoggedIn(ctx, currentSID) {
		return nil, &ForbiddenError{Message: "Cannot create a new user while logged in"}
	}

	if len(creds.UserName) > 100 {
		return nil, &ValidationError{Message: "User name too long"}
	}
	if creds.UserName == "" || creds.Password == "" {
		return nil, &ValidationError{Message: "User name and password are required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, creds.UserName, string(hash))
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &ConflictError{Message: "A user with that name already exists"}
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a fresh session ID. Any previous
// session for the cookie is discarded so the ID rotates on every login.
func (s *AuthService) Login(ctx context.Context, currentSID string, creds models.Credentials) (*models.User, string, error) {
	if s.isLoggedIn(ctx, currentSID) {
		return nil, "", &ForbiddenError{Message: "Already logged in"}
	}

	user, err := s.userRepo.GetByName(ctx, creds.UserName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", &UnauthorizedError{Message: "Invalid login credentials"}
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, "", &UnauthorizedError{Message: "Invalid login credentials"}
	}

	if currentSID != "" {
		s.sessions.Destroy(ctx, currentSID)
	}

	sid, err := s.sessions.Create(ctx, user.UserID)
	if err != nil {
		return nil, "", err
	}

	return user, sid, nil
}

// Logout destroys the caller's session.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if _, err := s.sessions.Get(ctx, sid); err != nil {
		return &UnauthorizedError{Message: "Unauthorized"}
	}
	return s.sessions.Destroy(ctx, sid)
}

func (s *AuthService) isLoggedIn(ctx context.Context, sid string) bool {
	if sid == "" {
		return false
	}
	_, err := s.sessions.Get(ctx, sid)
	return err == nil
}
