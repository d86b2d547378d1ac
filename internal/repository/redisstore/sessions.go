// Package redisstore keeps login sessions in Redis, letting several portal
// instances share them. Expiry is delegated to Redis key TTLs.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobportal/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type Sessions struct {
	client *redis.Client
	now    func() time.Time
}

func NewSessions(client *redis.Client) *Sessions {
	return &Sessions{client: client, now: time.Now}
}

type sessionPayload struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

func (s *Sessions) Save(ctx context.Context, sess models.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("save session: already expired")
	}
	data, err := json.Marshal(sessionPayload{
		UserID:    sess.Principal.UserID,
		Username:  sess.Principal.Username,
		Role:      string(sess.Principal.Role),
		ExpiresAt: sess.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns models.ErrSessionNotFound when the key is missing or expired.
func (s *Sessions) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var p sessionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &models.Session{
		ID: id,
		Principal: models.Principal{
			UserID:   p.UserID,
			Username: p.Username,
			Role:     models.Role(p.Role),
		},
		ExpiresAt: time.Unix(p.ExpiresAt, 0).UTC(),
	}, nil
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func key(id string) string {
	return keyPrefix + id
}
