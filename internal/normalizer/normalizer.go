// Package normalizer приводит сырые таблицы анкет к канонической схеме записей.
package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/housing-survey-dashboard/internal/domain"
)

// Stats - что нормализатор исправил молча. Пользователю не показывается, только логируется.
type Stats struct {
	Rows             int
	DuplicateColumns []string
	MissingColumns   []domain.Field
	CoercedNumbers   int
	UnknownCodes     int
}

// Normalize превращает сырую таблицу в канонический набор записей
func Normalize(table domain.RawTable) domain.RecordSet {
	set, _ := NormalizeWithStats(table)
	return set
}

// Renormalize повторно прогоняет уже нормализованный набор. Результат совпадает с входом.
func Renormalize(set domain.RecordSet) domain.RecordSet {
	return Normalize(set.ToRawTable())
}

// NormalizeWithStats - Normalize плюс статистика исправлений
func NormalizeWithStats(table domain.RawTable) (domain.RecordSet, Stats) {
	stats := Stats{Rows: len(table.Rows)}
	index := buildIndex(table.Columns, &stats)

	for _, f := range append(append([]domain.Field{}, domain.CategoricalFields...), domain.FactorFields...) {
		if _, ok := index[string(f)]; !ok {
			stats.MissingColumns = append(stats.MissingColumns, f)
		}
	}

	records := make([]domain.Record, 0, len(table.Rows))
	for i, row := range table.Rows {
		get := func(f domain.Field) interface{} {
			idx, ok := index[string(f)]
			if !ok {
				return nil
			}
			return row.Value(idx)
		}

		r := domain.Record{
			ID:               i,
			City:             cleanText(get(domain.FieldCity)),
			ProjectName:      cleanText(get(domain.FieldProjectName)),
			Owner:            cleanText(get(domain.FieldOwner)),
			Tenure:           cleanText(get(domain.FieldTenure)),
			HousingType:      cleanText(get(domain.FieldHousingType)),
			Condition:        cleanText(get(domain.FieldCondition)),
			Decisions:        cleanText(get(domain.FieldDecisions)),
			GasConnection:    cleanText(get(domain.FieldGasConnection)),
			ConstructionYear: cleanOptional(get(domain.FieldConstructionYear)),
			Geometry:         row.Geometry,
		}

		var coerced bool
		r.BuildingsCount, coerced = parseFactor(get(domain.FieldBuildingsCount))
		stats.CoercedNumbers += b2i(coerced)
		r.FloorsCount, coerced = parseFactor(get(domain.FieldFloorsCount))
		stats.CoercedNumbers += b2i(coerced)
		r.UnitsPerFloor, coerced = parseFactor(get(domain.FieldUnitsPerFloor))
		stats.CoercedNumbers += b2i(coerced)

		// Итог из файла ненадёжен, всегда пересчитываем
		r.UnitsCount = r.BuildingsCount * r.FloorsCount * r.UnitsPerFloor

		gov, known := resolveGovernorate(get(domain.FieldGovernorate))
		if !known && gov != domain.Unspecified {
			stats.UnknownCodes++
		}
		r.Governorate = gov

		records = append(records, r)
	}

	return domain.NewRecordSet(records), stats
}

// buildIndex переименовывает колонки и оставляет первое вхождение каждого канонического имени
func buildIndex(columns []string, stats *Stats) map[string]int {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		name := strings.TrimSpace(col)
		if mapped, ok := ColumnMapping[name]; ok {
			name = mapped
		}
		if _, dup := index[name]; dup {
			stats.DuplicateColumns = append(stats.DuplicateColumns, col)
			continue
		}
		index[name] = i
	}
	return index
}

// resolveGovernorate: "1", "1.0", 1.0 -> название; неизвестное значение проходит без изменений
func resolveGovernorate(v interface{}) (string, bool) {
	s := strings.TrimSpace(toString(v))
	code := strings.TrimSpace(strings.TrimSuffix(s, ".0"))
	if _, ok := domain.GovernorateCodes[code]; ok {
		return domain.ResolveGovernorate(code), true
	}
	return cleanText(s), false
}

func cleanText(v interface{}) string {
	s := norm.NFC.String(strings.TrimSpace(toString(v)))
	if isNullToken(s) {
		return domain.Unspecified
	}
	return s
}

func cleanOptional(v interface{}) string {
	s := norm.NFC.String(strings.TrimSpace(toString(v)))
	if isNullToken(s) {
		return ""
	}
	return s
}

func isNullToken(s string) bool {
	for _, t := range nullTokens {
		if strings.EqualFold(s, t) {
			return true
		}
	}
	return false
}

// parseFactor возвращает неотрицательное целое; второй результат - было ли значение заменено нулём
func parseFactor(v interface{}) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return clampInt(int64(n))
	case int64:
		return clampInt(n)
	case int32:
		return clampInt(int64(n))
	case float64:
		return clampFloat(n)
	case float32:
		return clampFloat(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, true
		}
		return clampFloat(f)
	case string:
		s := strings.TrimSpace(foldDigits(n))
		if isNullToken(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, true
		}
		return clampFloat(f)
	default:
		return 0, true
	}
}

// maxFactor держит произведение трёх множителей в пределах int64
const maxFactor = 1_000_000

func clampInt(n int64) (int, bool) {
	if n < 0 || n > maxFactor {
		return 0, true
	}
	return int(n), false
}

func clampFloat(f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	if math.IsInf(f, 0) || f < 0 || f > maxFactor {
		return 0, true
	}
	return int(f), false
}

// foldDigits заменяет арабско-индийские цифры и десятичный разделитель на ASCII
func foldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r == '٫':
			return '.'
		default:
			return r
		}
	}, s)
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
