package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BaseWorker - имя, логгер и сигнал остановки, общие для фоновых задач
type BaseWorker struct {
	name     string
	logger   *zap.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:   name,
		logger: logger.With(zap.String("worker", name)),
		stop:   make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop закрывает канал остановки; повторный вызов ничего не делает
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.stop)
	})
	return nil
}

// IsStopped - был ли вызван Stop
func (w *BaseWorker) IsStopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stop
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// RunEvery вызывает tick раз в interval до Stop или отмены ctx.
// Ошибка tick логируется и не прерывает цикл.
func (w *BaseWorker) RunEvery(ctx context.Context, interval time.Duration, tick func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			w.logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := tick(ctx); err != nil {
				w.logger.Error("Worker tick failed", zap.Error(err))
			}
		}
	}
}
