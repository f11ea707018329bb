package token

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(redis *redis.Client) *redisRepository {
	return &redisRepository{redis: redis}
}

type redisRepository struct {
	redis *redis.Client
}

func refreshTokenKey(userId uint, tokenId string) string {
	return fmt.Sprintf("%d:%s", userId, tokenId)
}

func (r redisRepository) SetRefreshToken(ctx context.Context, userId uint, tokenId string, expiresIn time.Duration) error {
	key := refreshTokenKey(userId, tokenId)
	if err := r.redis.WithContext(ctx).Set(key, 0, expiresIn).Err(); err != nil {
		return fmt.Errorf("could not set refresh token in redis for userId/tokenId: %d/%s: %v", userId, tokenId, err)
	}
	return nil
}

func (r redisRepository) DeleteRefreshToken(ctx context.Context, userId uint, previousTokenId string) error {
	key := refreshTokenKey(userId, previousTokenId)
	deleted, err := r.redis.WithContext(ctx).Del(key).Result()
	if err != nil {
		return fmt.Errorf("could not delete refresh token in redis for userId/tokenId: %d/%s: %v", userId, previousTokenId, err)
	}
	if deleted < 1 {
		return fmt.Errorf("refresh token to redis for userId/tokenId: %d/%s does not exist", userId, previousTokenId)
	}
	return nil
}

func (r redisRepository) DeleteRefreshTokens(ctx context.Context, userId uint) error {
	client := r.redis.WithContext(ctx)
	pattern := fmt.Sprintf("%d:*", userId)

	var cursor uint64
	for {
		keys, next, err := client.Scan(cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan refresh tokens of user %d: %v", userId, err)
		}

		if len(keys) > 0 {
			if err := client.Del(keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete refresh tokens of user %d: %v", userId, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
