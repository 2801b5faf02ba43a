package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// SessionService tracks issued session tokens so they can be revoked before
// they expire.
type SessionService interface {
	Register(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAll(ctx context.Context, userID string) error
	RevokeAllExcept(ctx context.Context, userID, keepTokenID string) error
}

type redisSessionService struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewSessionService(client *redis.Client, log *logrus.Logger) SessionService {
	return &redisSessionService{client: client, log: log}
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

func userSessionsKey(userID string) string {
	return userSessionKeyPrefix + userID
}

func (s *redisSessionService) Register(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(tokenID), userID, ttl)
	pipe.SAdd(ctx, userSessionsKey(userID), tokenID)
	pipe.Expire(ctx, userSessionsKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

func (s *redisSessionService) IsActive(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisSessionService) Revoke(ctx context.Context, tokenID string) error {
	userID, err := s.client.Get(ctx, sessionKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(tokenID))
	pipe.SRem(ctx, userSessionsKey(userID), tokenID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisSessionService) RevokeAll(ctx context.Context, userID string) error {
	return s.RevokeAllExcept(ctx, userID, "")
}

func (s *redisSessionService) RevokeAllExcept(ctx context.Context, userID, keepTokenID string) error {
	tokenIDs, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, tokenID := range tokenIDs {
		if tokenID == keepTokenID {
			continue
		}
		pipe.Del(ctx, sessionKey(tokenID))
		pipe.SRem(ctx, userSessionsKey(userID), tokenID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	s.log.Infof("Revoked sessions for user %s", userID)
	return nil
}
