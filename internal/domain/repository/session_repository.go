package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/housing-survey-dashboard/internal/domain"
)

// SessionRepository хранит состояние сессий дашборда.
// Реализации отдают и принимают копии, вызывающий код не разделяет изменяемое состояние.
type SessionRepository interface {
	// Get возвращает сессию; errors.ErrSessionNotFound если её нет или она истекла
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Save сохраняет сессию целиком
	Save(ctx context.Context, session *domain.Session) error

	// Delete удаляет сессию
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteIdle удаляет сессии, не менявшиеся с before; возвращает количество удалённых
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
}
