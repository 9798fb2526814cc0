package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/campusprep-api/internal/models"
	"github.com/noah-isme/campusprep-api/internal/repository"
)

// RefreshSessionStore tracks which refresh token ids are still redeemable.
type RefreshSessionStore interface {
	Save(ctx context.Context, tokenID string, accountID uint, expiresAt time.Time) error
	// Consume atomically removes a live session and reports whether it existed.
	Consume(ctx context.Context, tokenID string) (bool, error)
	RevokeAll(ctx context.Context, accountID uint) error
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisSessionStore keeps refresh sessions as expiring Redis keys.
func NewRedisSessionStore(client *redis.Client, prefix string) RefreshSessionStore {
	if prefix == "" {
		prefix = "campusprep"
	}
	return &redisSessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *redisSessionStore) sessionKey(tokenID string) string {
	return fmt.Sprintf("%s:refresh:%s", s.prefix, tokenID)
}

func (s *redisSessionStore) accountKey(accountID uint) string {
	return fmt.Sprintf("%s:refresh:account:%d", s.prefix, accountID)
}

func (s *redisSessionStore) Save(ctx context.Context, tokenID string, accountID uint, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("refresh session already expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(tokenID), strconv.FormatUint(uint64(accountID), 10), ttl)
	pipe.SAdd(ctx, s.accountKey(accountID), tokenID)
	pipe.Expire(ctx, s.accountKey(accountID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisSessionStore) Consume(ctx context.Context, tokenID string) (bool, error) {
	value, err := s.client.GetDel(ctx, s.sessionKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if accountID, parseErr := strconv.ParseUint(value, 10, 64); parseErr == nil {
		_ = s.client.SRem(ctx, s.accountKey(uint(accountID)), tokenID).Err()
	}
	return true, nil
}

func (s *redisSessionStore) RevokeAll(ctx context.Context, accountID uint) error {
	tokenIDs, err := s.client.SMembers(ctx, s.accountKey(accountID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, tokenID := range tokenIDs {
		keys = append(keys, s.sessionKey(tokenID))
	}
	keys = append(keys, s.accountKey(accountID))

	return s.client.Del(ctx, keys...).Err()
}

type dbSessionStore struct {
	repo repository.RefreshSessionRepository
	now  func() time.Time
}

// NewDBSessionStore keeps refresh sessions in the relational store.
func NewDBSessionStore(repo repository.RefreshSessionRepository) RefreshSessionStore {
	return &dbSessionStore{repo: repo, now: time.Now}
}

func (s *dbSessionStore) Save(ctx context.Context, tokenID string, accountID uint, expiresAt time.Time) error {
	return s.repo.Create(ctx, &models.RefreshSession{
		TokenID:   tokenID,
		AccountID: accountID,
		ExpiresAt: expiresAt,
	})
}

func (s *dbSessionStore) Consume(ctx context.Context, tokenID string) (bool, error) {
	return s.repo.Consume(ctx, tokenID, s.now())
}

func (s *dbSessionStore) RevokeAll(ctx context.Context, accountID uint) error {
	return s.repo.DeleteByAccount(ctx, accountID)
}
