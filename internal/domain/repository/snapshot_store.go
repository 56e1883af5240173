package repository

import (
	"context"
	"time"
)

// SnapshotStore - хранилище сериализованных снапшотов сессий с истечением по TTL.
// Промах чтения возвращает nil без ошибки.
type SnapshotStore interface {
	// Load читает снапшот и продлевает срок жизни ключа
	Load(ctx context.Context, key string, ttl time.Duration) ([]byte, error)

	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove удаляет ключ; false, если его не было
	Remove(ctx context.Context, key string) (bool, error)
}
