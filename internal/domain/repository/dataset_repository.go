package repository

import (
	"context"

	"github.com/housing-survey-dashboard/internal/domain"
)

// DatasetRepository отдаёт набор по умолчанию, с которого начинается новая сессия
type DatasetRepository interface {
	LoadDefault(ctx context.Context) (domain.RecordSet, error)
}

// Ingester разбирает загруженный файл в канонический набор
type Ingester interface {
	Ingest(ctx context.Context, data []byte, declaredType string) (domain.RecordSet, error)
}

// DatasetWriter заменяет содержимое хранилища набора по умолчанию
type DatasetWriter interface {
	ReplaceAll(ctx context.Context, set domain.RecordSet) (int, error)
}
