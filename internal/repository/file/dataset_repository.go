package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/domain/repository"
)

type datasetRepository struct {
	path     string
	ingester repository.Ingester
	logger   *zap.Logger
}

// NewDatasetRepository читает набор по умолчанию из файла на диске.
// Формат определяется по расширению, разбор идёт тем же путём, что и загрузка пользователя.
func NewDatasetRepository(path string, ingester repository.Ingester, logger *zap.Logger) repository.DatasetRepository {
	return &datasetRepository{
		path:     path,
		ingester: ingester,
		logger:   logger,
	}
}

func (r *datasetRepository) LoadDefault(ctx context.Context) (domain.RecordSet, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("read default dataset: %w", err)
	}

	set, err := r.ingester.Ingest(ctx, data, filepath.Base(r.path))
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("ingest default dataset %s: %w", r.path, err)
	}

	r.logger.Info("Default dataset loaded",
		zap.String("path", r.path),
		zap.Int("records", set.Len()),
	)
	return set, nil
}
