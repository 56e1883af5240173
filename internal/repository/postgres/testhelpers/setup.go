package testhelpers

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/config"
)

// TestDB - подключение к тестовой базе с PostGIS
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// testConfig - параметры тестовой базы из TEST_DB_*
func testConfig() config.DatabaseConfig {
	port, err := strconv.Atoi(getEnv("TEST_DB_PORT", "5433"))
	if err != nil {
		port = 5433
	}
	return config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		DBName:   getEnv("TEST_DB_NAME", "housing_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}
}

// SetupTestDB подключается к тестовой базе. Тест пропускается, если база или PostGIS недоступны.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	cfg := testConfig()

	// контейнер с базой может ещё подниматься
	var (
		db  *sqlx.DB
		err error
	)
	delay := 250 * time.Millisecond
	for attempt := 1; attempt <= 4; attempt++ {
		if db, err = sqlx.Connect("postgres", cfg.DSN()); err == nil {
			break
		}
		t.Logf("Database not ready (attempt %d), retry in %v", attempt, delay)
		time.Sleep(delay)
		delay *= 2
	}
	if err != nil {
		t.Skipf("Test database not available: %v", err)
	}

	var version string
	if err := db.Get(&version, "SELECT postgis_lib_version()"); err != nil {
		_ = db.Close()
		t.Skipf("PostGIS not available: %v", err)
	}
	t.Logf("PostGIS %s at %s:%d/%s", version, cfg.Host, cfg.Port, cfg.DBName)

	return &TestDB{DB: db, Logger: zap.NewNop()}
}

// Close закрывает подключение
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.Close()
	}
}

// Cleanup очищает таблицу проектов между тестами
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE housing_projects RESTART IDENTITY")
	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
