package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ikkim/smartmart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

const sessionKeyPrefix = "session:"

// SessionStore keeps one key per live session: session:<id> -> user id.
// Expiry is left to the key TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Create stores a new session. It never overwrites an existing id.
func (s *SessionStore) Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, sessionKey(sessionID), userID, ttl).Result()
	if err != nil {
		logger.Error("Failed to store session", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	if !ok {
		return ErrSessionExists
	}

	logger.Debug("Session stored", map[string]interface{}{
		"user_id": userID,
		"ttl":     ttl.String(),
	})
	return nil
}

// Lookup returns the user id owning sessionID.
func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (uint, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		logger.Error("Failed to look up session", err, nil)
		return 0, err
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session record: %w", err)
	}
	return uint(userID), nil
}

// Delete removes sessionID. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		logger.Error("Failed to delete session", err, nil)
		return err
	}
	logger.Debug("Session deleted", nil)
	return nil
}
