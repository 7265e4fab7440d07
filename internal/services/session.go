package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps opaque session IDs in redis, mapped to user IDs.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: redisClient, ttl: ttl}
}

func sessionKey(sid string) string { return "session:" + sid }

// Create issues a fresh session ID for the user.
func (s *SessionStore) Create(ctx context.Context, userID int32) (string, error) {
	sid, err := generateToken(32)
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, sessionKey(sid), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sid, nil
}

// Get resolves a session ID to the owning user ID.
func (s *SessionStore) Get(ctx context.Context, sid string) (int32, error) {
	userID, err := s.redis.Get(ctx, sessionKey(sid)).Int()
	if err != nil {
		return 0, err
	}
	return int32(userID), nil
}

// Destroy invalidates a session ID. Destroying an unknown session is not an
// error.
func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	return s.redis.Del(ctx, sessionKey(sid)).Err()
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
