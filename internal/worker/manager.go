package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// WorkerManager запускает фоновые задачи процесса и останавливает их при завершении
type WorkerManager struct {
	mu      sync.Mutex
	workers []Worker
	running sync.WaitGroup
	logger  *zap.Logger
}

func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	return &WorkerManager{logger: logger}
}

func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	m.workers = append(m.workers, w)
	m.mu.Unlock()

	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// Start запускает каждый воркер в своей горутине и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.registered()
	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	for _, w := range workers {
		m.running.Add(1)
		go m.run(ctx, w)
	}

	m.logger.Info("Workers started", zap.Int("count", len(workers)))
	return nil
}

func (m *WorkerManager) run(ctx context.Context, w Worker) {
	defer m.running.Done()

	err := w.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
	}
}

// Stop сигнализирует всем воркерам и ждёт их завершения не дольше дедлайна ctx
func (m *WorkerManager) Stop(ctx context.Context) error {
	var stopErrs []error
	for _, w := range m.registered() {
		if err := w.Stop(); err != nil {
			stopErrs = append(stopErrs, fmt.Errorf("%s: %w", w.Name(), err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped")
		return errors.Join(stopErrs...)
	case <-ctx.Done():
		m.logger.Warn("Workers shutdown timed out", zap.Error(ctx.Err()))
		return errors.Join(append(stopErrs, fmt.Errorf("workers shutdown: %w", ctx.Err()))...)
	}
}

func (m *WorkerManager) registered() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}
