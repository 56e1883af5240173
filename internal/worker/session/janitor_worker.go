package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain/repository"
	"github.com/housing-survey-dashboard/internal/metrics"
	"github.com/housing-survey-dashboard/internal/worker"
)

// JanitorWorker периодически удаляет сессии, простаивающие дольше ttl
type JanitorWorker struct {
	*worker.BaseWorker
	sessionRepo repository.SessionRepository
	ttl         time.Duration
	interval    time.Duration
	now         func() time.Time
}

// NewJanitorWorker создает новый JanitorWorker
func NewJanitorWorker(
	sessionRepo repository.SessionRepository,
	ttl time.Duration,
	interval time.Duration,
	logger *zap.Logger,
) *JanitorWorker {
	return &JanitorWorker{
		BaseWorker:  worker.NewBaseWorker("session-janitor", logger),
		sessionRepo: sessionRepo,
		ttl:         ttl,
		interval:    interval,
		now:         time.Now,
	}
}

// Start запускает цикл очистки
func (w *JanitorWorker) Start(ctx context.Context) error {
	w.Logger().Info("Starting session janitor",
		zap.Duration("ttl", w.ttl),
		zap.Duration("interval", w.interval))

	return w.RunEvery(ctx, w.interval, func(ctx context.Context) error {
		_, err := w.Sweep(ctx)
		return err
	})
}

// Sweep выполняет один проход очистки и возвращает число удалённых сессий
func (w *JanitorWorker) Sweep(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-w.ttl)

	removed, err := w.sessionRepo.DeleteIdle(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		metrics.EvictedSessionsTotal.Add(float64(removed))
		w.Logger().Info("Idle sessions evicted",
			zap.Int("removed", removed),
			zap.Time("cutoff", cutoff))
	}
	return removed, nil
}
