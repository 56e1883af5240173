package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain/repository"
)

type snapshotStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSnapshotStore - снапшоты сессий в Redis, по одному строковому ключу на сессию
func NewSnapshotStore(r *Redis) repository.SnapshotStore {
	return &snapshotStore{
		client: r.Client(),
		logger: r.logger,
	}
}

// Load использует GETEX: чтение и продление TTL одной командой, так что
// сессия, которую только просматривают, не истекает
func (s *snapshotStore) Load(ctx context.Context, key string, ttl time.Duration) ([]byte, error) {
	val, err := s.client.GetEx(ctx, key, ttl).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load snapshot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("snapshot load: %w", err)
	}

	s.logger.Debug("Snapshot loaded", zap.String("key", key), zap.Int("bytes", len(val)))
	return val, nil
}

func (s *snapshotStore) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Error("Failed to store snapshot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("snapshot store: %w", err)
	}
	return nil
}

func (s *snapshotStore) Remove(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		s.logger.Error("Failed to remove snapshot", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("snapshot remove: %w", err)
	}
	return n > 0, nil
}
