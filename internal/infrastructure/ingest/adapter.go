// Package ingest разбирает загруженные файлы (GeoJSON, CSV, XLSX) в канонический набор записей.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/normalizer"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
)

// Format - тип входного файла, определяется расширением
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
)

// ParseFormat принимает расширение ("xlsx", ".XLSX") или имя файла
func ParseFormat(declared string) (Format, error) {
	s := strings.ToLower(strings.TrimSpace(declared))
	if ext := filepath.Ext(s); ext != "" {
		s = ext
	}
	s = strings.TrimPrefix(s, ".")

	switch Format(s) {
	case FormatGeoJSON, FormatJSON, FormatCSV, FormatXLSX:
		return Format(s), nil
	default:
		return "", errors.ErrUnsupportedFormat.WithDetails(map[string]interface{}{
			"declared_type": declared,
		})
	}
}

// Adapter - адаптер загрузки: байты файла -> сырые строки -> нормализатор
type Adapter struct {
	fallbackEPSG int
	maxBytes     int
	logger       *zap.Logger
}

// NewAdapter создаёт адаптер. fallbackEPSG применяется к GeoJSON без CRS в метрических координатах.
func NewAdapter(fallbackEPSG, maxBytes int, logger *zap.Logger) *Adapter {
	return &Adapter{
		fallbackEPSG: fallbackEPSG,
		maxBytes:     maxBytes,
		logger:       logger,
	}
}

// Ingest разбирает файл заданного типа. Ошибки - *errors.AppError (UNSUPPORTED_FORMAT, MALFORMED_INPUT, UPLOAD_TOO_LARGE).
func (a *Adapter) Ingest(ctx context.Context, data []byte, declaredType string) (domain.RecordSet, error) {
	format, err := ParseFormat(declaredType)
	if err != nil {
		return domain.RecordSet{}, err
	}

	if a.maxBytes > 0 && len(data) > a.maxBytes {
		return domain.RecordSet{}, errors.ErrUploadTooLarge.WithDetails(map[string]interface{}{
			"size":      len(data),
			"max_bytes": a.maxBytes,
		})
	}

	var table domain.RawTable
	switch format {
	case FormatGeoJSON, FormatJSON:
		table, err = a.decodeGeoJSON(ctx, data)
	case FormatCSV:
		table, err = decodeCSV(ctx, data)
	case FormatXLSX:
		table, err = decodeXLSX(ctx, data)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.RecordSet{}, ctxErr
		}
		a.logger.Warn("Failed to decode upload",
			zap.String("format", string(format)),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return domain.RecordSet{}, errors.ErrMalformedInput.Wrap(err)
	}

	set, stats := normalizer.NormalizeWithStats(table)

	a.logger.Info("Dataset ingested",
		zap.String("format", string(format)),
		zap.Int("rows", stats.Rows),
		zap.Int("coerced_numbers", stats.CoercedNumbers),
		zap.Int("unknown_governorate_codes", stats.UnknownCodes),
		zap.Strings("duplicate_columns", stats.DuplicateColumns),
		zap.Int("missing_columns", len(stats.MissingColumns)),
	)

	return set, nil
}
