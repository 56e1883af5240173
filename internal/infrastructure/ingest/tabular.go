package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/xuri/excelize/v2"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/pkg/utils"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Колонки координат в табличных файлах (WGS84)
var (
	latColumns = []string{"lat", "latitude"}
	lonColumns = []string{"lon", "lng", "longitude"}
)

func decodeCSV(ctx context.Context, data []byte) (domain.RawTable, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return domain.RawTable{}, fmt.Errorf("csv file is empty")
		}
		return domain.RawTable{}, fmt.Errorf("failed to read csv header: %w", err)
	}

	b := newTableBuilder(header)
	for {
		if err := ctx.Err(); err != nil {
			return domain.RawTable{}, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("failed to read csv row: %w", err)
		}
		b.add(record)
	}

	return b.table, nil
}

func decodeXLSX(ctx context.Context, data []byte) (domain.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawTable{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	defer rows.Close()

	var b *tableBuilder
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return domain.RawTable{}, err
		}
		cols, err := rows.Columns()
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("failed to read sheet row: %w", err)
		}
		if b == nil {
			b = newTableBuilder(cols)
			continue
		}
		b.add(cols)
	}
	if err := rows.Error(); err != nil {
		return domain.RawTable{}, fmt.Errorf("failed to iterate sheet: %w", err)
	}
	if b == nil {
		return domain.RawTable{}, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	return b.table, nil
}

// tableBuilder собирает строки табличного файла и достаёт точку из колонок lat/lon
type tableBuilder struct {
	table  domain.RawTable
	latIdx int
	lonIdx int
}

func newTableBuilder(header []string) *tableBuilder {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	return &tableBuilder{
		table:  domain.RawTable{Columns: columns},
		latIdx: findColumn(columns, latColumns),
		lonIdx: findColumn(columns, lonColumns),
	}
}

func (b *tableBuilder) add(cells []string) {
	if isBlankRow(cells) {
		return
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	b.table.Rows = append(b.table.Rows, domain.RawRow{
		Values:   values,
		Geometry: b.point(cells),
	})
}

func (b *tableBuilder) point(cells []string) orb.Geometry {
	if b.latIdx < 0 || b.lonIdx < 0 || b.latIdx >= len(cells) || b.lonIdx >= len(cells) {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(cells[b.latIdx]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(cells[b.lonIdx]), 64)
	if err != nil {
		return nil
	}
	if !utils.ValidateCoordinates(lat, lon) {
		return nil
	}
	return orb.Point{lon, lat}
}

func findColumn(columns, names []string) int {
	for i, c := range columns {
		for _, n := range names {
			if strings.EqualFold(c, n) {
				return i
			}
		}
	}
	return -1
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
