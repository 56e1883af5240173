package worker

import "context"

// Worker - фоновая задача процесса API
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
