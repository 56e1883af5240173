package usecase

import (
	"sort"

	"github.com/housing-survey-dashboard/internal/domain"
)

// Aggregate считает счётчики по подмножеству. Пустой вход даёт нули.
func Aggregate(records []domain.Record) domain.Summary {
	var s domain.Summary
	for i := range records {
		s.Count++
		s.UnitSum += records[i].UnitsCount
		s.BuildingSum += records[i].BuildingsCount
	}
	if s.Count > 0 {
		s.AvgUnitsPerProject = s.UnitSum / s.Count
	}
	return s
}

// Breakdown - распределение значений поля: по убыванию количества, затем по метке
func Breakdown(records []domain.Record, field domain.Field) domain.Breakdown {
	counts := make(map[string]int)
	for i := range records {
		v, ok := records[i].Category(field)
		if !ok {
			continue
		}
		counts[v]++
	}

	values := make([]domain.CategoryCount, 0, len(counts))
	for label, n := range counts {
		values = append(values, domain.CategoryCount{Label: label, Count: n})
	}

	c := newArabicCollator()
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		if cmp := c.CompareString(values[i].Label, values[j].Label); cmp != 0 {
			return cmp < 0
		}
		return values[i].Label < values[j].Label
	})

	return domain.Breakdown{Field: field, Values: values}
}

// Breakdowns строит распределения для всех полей графиков, присутствующих в наборе
func Breakdowns(set domain.RecordSet, records []domain.Record) []domain.Breakdown {
	result := make([]domain.Breakdown, 0, len(domain.ChartFields))
	for _, f := range domain.ChartFields {
		if !set.Has(f) {
			continue
		}
		result = append(result, Breakdown(records, f))
	}
	return result
}
