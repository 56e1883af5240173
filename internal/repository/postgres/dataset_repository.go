package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/domain/repository"
	"github.com/housing-survey-dashboard/internal/normalizer"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type datasetRepository struct {
	db     *sqlx.DB
	table  string
	query  string
	logger *zap.Logger
}

// projectRow - строка таблицы проектов: исходные атрибуты анкеты и геометрия в WGS84
type projectRow struct {
	ID         int64          `db:"id"`
	Properties []byte         `db:"properties"`
	Geometry   sql.NullString `db:"geometry"`
}

// DatasetRepository - набор по умолчанию в таблице PostGIS: чтение для сессий и замена импортом
type DatasetRepository interface {
	repository.DatasetRepository
	repository.DatasetWriter
}

// NewDatasetRepository читает набор по умолчанию из таблицы PostGIS.
// Таблица хранит сырые атрибуты в jsonb, нормализация выполняется как для загруженного файла.
func NewDatasetRepository(db *DB, table string) (DatasetRepository, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid dataset table name %q", table)
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			properties,
			ST_AsGeoJSON(ST_Transform(geom, 4326)) AS geometry
		FROM %s
		ORDER BY id
	`, quoteTable(table))

	return &datasetRepository{
		db:     db.DB,
		table:  quoteTable(table),
		query:  query,
		logger: db.logger,
	}, nil
}

func quoteTable(table string) string {
	for i := 0; i < len(table); i++ {
		if table[i] == '.' {
			return pq.QuoteIdentifier(table[:i]) + "." + pq.QuoteIdentifier(table[i+1:])
		}
	}
	return pq.QuoteIdentifier(table)
}

// LoadDefault возвращает все проекты таблицы в каноническом виде
func (r *datasetRepository) LoadDefault(ctx context.Context) (domain.RecordSet, error) {
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, r.query); err != nil {
		r.logger.Error("Failed to load dataset", zap.Error(err))
		return domain.RecordSet{}, errors.ErrDatabaseError.Wrap(err)
	}

	table, err := rowsToTable(rows)
	if err != nil {
		r.logger.Error("Failed to decode dataset rows", zap.Error(err))
		return domain.RecordSet{}, errors.ErrDatabaseError.Wrap(err)
	}

	set, stats := normalizer.NormalizeWithStats(table)
	r.logger.Info("Dataset loaded from database",
		zap.Int("records", set.Len()),
		zap.Int("coerced_numbers", stats.CoercedNumbers),
		zap.Int("unknown_governorate_codes", stats.UnknownCodes),
		zap.Int("missing_columns", len(stats.MissingColumns)),
	)
	return set, nil
}

// rowsToTable собирает сырую таблицу: колонки - объединение ключей jsonb в порядке анкеты
func rowsToTable(rows []projectRow) (domain.RawTable, error) {
	props := make([]map[string]interface{}, len(rows))
	seen := make(map[string]struct{})
	var columns []string

	for i, row := range rows {
		if len(row.Properties) > 0 {
			dec := json.NewDecoder(bytes.NewReader(row.Properties))
			dec.UseNumber()
			if err := dec.Decode(&props[i]); err != nil {
				return domain.RawTable{}, fmt.Errorf("row %d: decode properties: %w", row.ID, err)
			}
		}
		for k := range props[i] {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}
	normalizer.SortColumns(columns)

	table := domain.RawTable{
		Columns: columns,
		Rows:    make([]domain.RawRow, 0, len(rows)),
	}
	for i, row := range rows {
		var geom orb.Geometry
		if row.Geometry.Valid && row.Geometry.String != "" {
			g, err := geojson.UnmarshalGeometry([]byte(row.Geometry.String))
			if err != nil {
				return domain.RawTable{}, fmt.Errorf("row %d: decode geometry: %w", row.ID, err)
			}
			geom = g.Geometry()
		}

		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = props[i][c]
		}
		table.Rows = append(table.Rows, domain.RawRow{Values: values, Geometry: geom})
	}

	return table, nil
}

// ReplaceAll атомарно заменяет содержимое таблицы набором в каноническом виде.
// Порядок вставки задаёт id, а значит и стабильные идентификаторы при следующей загрузке.
func (r *datasetRepository) ReplaceAll(ctx context.Context, set domain.RecordSet) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.ErrDatabaseError.Wrap(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", r.table)); err != nil {
		r.logger.Error("Failed to truncate dataset table", zap.Error(err))
		return 0, errors.ErrDatabaseError.Wrap(err)
	}

	stmt, err := tx.PreparexContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (properties, geom)
		VALUES ($1::jsonb, ST_SetSRID(ST_GeomFromGeoJSON($2::text), 4326))
	`, r.table))
	if err != nil {
		return 0, errors.ErrDatabaseError.Wrap(err)
	}
	defer stmt.Close()

	for i := range set.Records {
		props, geom, err := recordToRow(&set.Records[i])
		if err != nil {
			return 0, errors.ErrDatabaseError.Wrap(err)
		}
		if _, err := stmt.ExecContext(ctx, props, geom); err != nil {
			r.logger.Error("Failed to insert project", zap.Int("record_id", set.Records[i].ID), zap.Error(err))
			return 0, errors.ErrDatabaseError.Wrap(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.ErrDatabaseError.Wrap(err)
	}

	r.logger.Info("Dataset table replaced", zap.Int("records", set.Len()))
	return set.Len(), nil
}

// recordToRow - канонические атрибуты в jsonb и геометрия в GeoJSON (NULL если её нет)
func recordToRow(rec *domain.Record) (string, sql.NullString, error) {
	props := rec.Properties()
	delete(props, "id")

	data, err := json.Marshal(props)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("record %d: encode properties: %w", rec.ID, err)
	}

	if rec.Geometry == nil {
		return string(data), sql.NullString{}, nil
	}
	geom, err := geojson.NewGeometry(rec.Geometry).MarshalJSON()
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("record %d: encode geometry: %w", rec.ID, err)
	}
	return string(data), sql.NullString{String: string(geom), Valid: true}, nil
}
