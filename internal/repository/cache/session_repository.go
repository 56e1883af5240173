package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/domain/repository"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
)

const sessionKeyPrefix = "session:"

type sessionRepository struct {
	store  repository.SnapshotStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionRepository хранит снапшоты сессий в Redis.
// Истечение сессий отдаётся TTL ключа, каждое чтение и сохранение продлевает его.
func NewSessionRepository(store repository.SnapshotStore, ttl time.Duration, logger *zap.Logger) repository.SessionRepository {
	return &sessionRepository{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (r *sessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := r.store.Load(ctx, sessionKey(id), r.ttl)
	if err != nil {
		return nil, errors.ErrCacheError.Wrap(err)
	}
	if data == nil {
		return nil, errors.ErrSessionNotFound
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Error("Corrupted session snapshot", zap.String("session_id", id.String()), zap.Error(err))
		return nil, errors.ErrCacheError.Wrap(fmt.Errorf("decode snapshot: %w", err))
	}

	s, err := snap.Restore()
	if err != nil {
		return nil, errors.ErrCacheError.Wrap(err)
	}
	return s, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session.Snapshot())
	if err != nil {
		return errors.ErrCacheError.Wrap(fmt.Errorf("encode snapshot: %w", err))
	}

	if err := r.store.Store(ctx, sessionKey(session.ID), data, r.ttl); err != nil {
		return errors.ErrCacheError.Wrap(err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := r.store.Remove(ctx, sessionKey(id))
	if err != nil {
		return errors.ErrCacheError.Wrap(err)
	}
	if !removed {
		return errors.ErrSessionNotFound
	}
	return nil
}

// DeleteIdle ничего не делает: простаивающие ключи удаляет сам Redis по TTL
func (r *sessionRepository) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	return 0, ctx.Err()
}
