package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/repository/postgres"
)

// NewDBForTest оборачивает тестовое подключение в postgres.DB
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewDatasetRepositoryForTest создаёт репозиторий набора поверх тестовой базы
func NewDatasetRepositoryForTest(db *sqlx.DB, logger *zap.Logger, table string) (postgres.DatasetRepository, error) {
	return postgres.NewDatasetRepository(NewDBForTest(db, logger), table)
}
