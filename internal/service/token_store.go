package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenPrefix  = "access_token"
	refreshTokenPrefix = "refresh_token"
	scanBatch          = 100
)

// TokenStore is the allow-list of issued JWT ids. A token whose id is not in
// the store is treated as revoked.
type TokenStore interface {
	Store(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error
	IsAccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	IsRefreshValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, accessID, refreshID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type redisTokenStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewTokenStore(redisClient *redis.Client, log *logrus.Logger) TokenStore {
	return &redisTokenStore{redisClient: redisClient, log: log}
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", accessTokenPrefix, userID.String(), tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", refreshTokenPrefix, userID.String(), tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error {
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, accessKey(userID, accessID), "valid", accessTTL)
	pipe.Set(ctx, refreshKey(userID, refreshID), "valid", refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *redisTokenStore) IsAccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return s.exists(ctx, accessKey(userID, tokenID))
}

func (s *redisTokenStore) IsRefreshValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return s.exists(ctx, refreshKey(userID, tokenID))
}

// ConsumeRefresh deletes the refresh token and reports whether it was
// present, so one refresh token can be exchanged only once.
func (s *redisTokenStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.redisClient.Del(ctx, refreshKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to delete refresh token: %+v", err)
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, userID uuid.UUID, accessID, refreshID string) error {
	keys := []string{accessKey(userID, accessID)}
	if refreshID != "" {
		keys = append(keys, refreshKey(userID, refreshID))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}
	return nil
}

// RevokeAll removes every access and refresh token of the user.
func (s *redisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, prefix := range []string{accessTokenPrefix, refreshTokenPrefix} {
		pattern := fmt.Sprintf("%s:%s:*", prefix, userID.String())
		iter := s.redisClient.Scan(ctx, 0, pattern, scanBatch).Iterator()

		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warnf("Failed to scan %s keys: %+v", prefix, err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete %s keys: %+v", prefix, err)
			return err
		}
	}
	return nil
}

func (s *redisTokenStore) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return n > 0, nil
}
