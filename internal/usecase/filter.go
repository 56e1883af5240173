package usecase

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/housing-survey-dashboard/internal/domain"
)

// Cascade - результат каскадных фильтров: шаги с вариантами выбора и отфильтрованный набор
type Cascade struct {
	Steps    []domain.FilterStep
	Filtered domain.RecordSet
}

// Step возвращает шаг каскада по полю
func (c Cascade) Step(field domain.Field) (domain.FilterStep, bool) {
	for _, s := range c.Steps {
		if s.Field == field {
			return s, true
		}
	}
	return domain.FilterStep{}, false
}

// ApplyFilters применяет фильтры строго по domain.FilterOrder, независимо от порядка во входе.
// Варианты каждого шага считаются по набору, уже суженному предыдущими шагами.
func ApplyFilters(set domain.RecordSet, filters []domain.FilterConstraint) Cascade {
	selected := filterValues(filters)
	working := set.Records
	steps := make([]domain.FilterStep, 0, len(domain.FilterOrder))

	for _, field := range domain.FilterOrder {
		value, ok := selected[field]
		if !ok {
			value = domain.AllValues
		}

		if !set.Has(field) {
			steps = append(steps, domain.FilterStep{
				Field:    field,
				Selected: domain.AllValues,
				Options:  []string{domain.AllValues},
				Skipped:  true,
			})
			continue
		}

		steps = append(steps, domain.FilterStep{
			Field:    field,
			Selected: value,
			Options:  candidates(working, field),
		})

		if value == domain.AllValues {
			continue
		}
		working = matchField(working, field, value)
	}

	return Cascade{
		Steps:    steps,
		Filtered: set.Subset(working),
	}
}

// filterValues сводит список ограничений к значению на поле; пустое значение и "الكل" не сужают
func filterValues(filters []domain.FilterConstraint) map[domain.Field]string {
	values := make(map[domain.Field]string, len(filters))
	for _, f := range filters {
		if f.Value == "" || f.Value == domain.AllValues {
			delete(values, f.Field)
			continue
		}
		values[f.Field] = f.Value
	}
	return values
}

func matchField(records []domain.Record, field domain.Field, value string) []domain.Record {
	result := make([]domain.Record, 0, len(records))
	for i := range records {
		if v, _ := records[i].Category(field); v == value {
			result = append(result, records[i])
		}
	}
	return result
}

// candidates - различные значения поля, отсортированные по арабской коллации, с "الكل" в начале
func candidates(records []domain.Record, field domain.Field) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range records {
		v, _ := records[i].Category(field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	sortArabic(values)
	return append([]string{domain.AllValues}, values...)
}

// sortArabic сортирует строки по арабской коллации. Collator не потокобезопасен, создаётся на вызов.
func sortArabic(values []string) {
	newArabicCollator().SortStrings(values)
}

func newArabicCollator() *collate.Collator {
	return collate.New(language.Arabic)
}
