package usecase

import (
	"fmt"
	"time"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
	"github.com/housing-survey-dashboard/internal/pkg/utils"
)

// Reduce применяет событие к состоянию сессии и возвращает новое состояние.
// Входная сессия не изменяется. changed=false означает, что перерисовка не нужна.
func Reduce(s *domain.Session, event domain.Event, now time.Time) (*domain.Session, bool, error) {
	var (
		next    *domain.Session
		changed bool
		err     error
	)

	switch e := event.(type) {
	case domain.FileUploaded:
		next, changed = reduceFileUploaded(s, e)
	case domain.FiltersChanged:
		next, changed, err = reduceFiltersChanged(s, e)
	case domain.MapMoved:
		next, changed, err = reduceMapMoved(s, e)
	case domain.MapClicked:
		next, changed, err = reduceMapClicked(s, e)
	case domain.RecordChosen:
		next, changed, err = reduceRecordChosen(s, e)
	case domain.ZoomRequested:
		next, changed, err = reduceZoomRequested(s, e)
	case domain.ZoomCleared:
		next, changed = reduceZoomCleared(s)
	default:
		return nil, false, fmt.Errorf("unknown event type %T", event)
	}
	if err != nil {
		return nil, false, err
	}

	next.UpdatedAt = now
	if changed {
		next.Revision++
	}
	return next, changed, nil
}

// reduceFileUploaded заменяет набор целиком и сбрасывает фильтры, выбор, зум и viewport
func reduceFileUploaded(s *domain.Session, e domain.FileUploaded) (*domain.Session, bool) {
	next := s.Clone()
	next.Records = e.Records
	next.Source = e.Source
	next.Filters = nil
	next.ZoomTarget = nil
	next.SelectedID = nil
	next.Viewport = nil
	return next, true
}

// reduceFiltersChanged сохраняет фильтры в каноническом порядке.
// Смена мухафазы или города сбрасывает зум на проект, остальные фильтры его не трогают.
func reduceFiltersChanged(s *domain.Session, e domain.FiltersChanged) (*domain.Session, bool, error) {
	for _, f := range e.Filters {
		if !domain.IsFilterField(f.Field) {
			return nil, false, errors.ErrInvalidFilter.WithDetails(map[string]interface{}{
				"field": f.Field,
			})
		}
	}

	filters := pruneStaleFilters(s.Records, canonicalFilters(e.Filters))

	next := s.Clone()
	next.Filters = filters

	locationChanged := s.FilterValue(domain.FieldGovernorate) != next.FilterValue(domain.FieldGovernorate) ||
		s.FilterValue(domain.FieldCity) != next.FilterValue(domain.FieldCity)
	zoomCleared := locationChanged && next.ZoomTarget != nil
	if locationChanged {
		next.ZoomTarget = nil
	}

	return next, zoomCleared || !equalFilters(s.Filters, filters), nil
}

func reduceMapMoved(s *domain.Session, e domain.MapMoved) (*domain.Session, bool, error) {
	if !e.Viewport.Valid() {
		return nil, false, errors.ErrInvalidBBox
	}

	v := e.Viewport.Clamp()
	next := s.Clone()
	if s.Viewport != nil && *s.Viewport == v {
		return next, false, nil
	}
	next.Viewport = &v
	return next, true, nil
}

// reduceMapClicked выбирает проект под точкой во всём наборе; промах ничего не меняет
func reduceMapClicked(s *domain.Session, e domain.MapClicked) (*domain.Session, bool, error) {
	if !utils.ValidateCoordinates(e.Point.Lat, e.Point.Lon) {
		return nil, false, errors.ErrInvalidCoordinates
	}

	id, ok := SelectAt(s.Records, e.Point, e.Tolerance)
	if !ok {
		return s.Clone(), false, nil
	}
	next, changed := selectRecord(s, id)
	return next, changed, nil
}

func reduceRecordChosen(s *domain.Session, e domain.RecordChosen) (*domain.Session, bool, error) {
	if _, ok := s.Records.ByID(e.RecordID); !ok {
		return nil, false, errors.ErrRecordNotFound.WithDetails(map[string]interface{}{
			"record_id": e.RecordID,
		})
	}
	next, changed := selectRecord(s, e.RecordID)
	return next, changed, nil
}

// selectRecord: повторный выбор того же проекта - не изменение
func selectRecord(s *domain.Session, id int) (*domain.Session, bool) {
	next := s.Clone()
	if s.SelectedID != nil && *s.SelectedID == id {
		return next, false
	}
	next.SelectedID = &id
	return next, true
}

// reduceZoomRequested ставит зум на проект; у проекта без геометрии зума нет
func reduceZoomRequested(s *domain.Session, e domain.ZoomRequested) (*domain.Session, bool, error) {
	rec, ok := s.Records.ByID(e.RecordID)
	if !ok {
		return nil, false, errors.ErrRecordNotFound.WithDetails(map[string]interface{}{
			"record_id": e.RecordID,
		})
	}

	next := s.Clone()
	target, ok := ZoomTargetFor(rec)
	if !ok || (s.ZoomTarget != nil && *s.ZoomTarget == target) {
		return next, false, nil
	}
	next.ZoomTarget = &target
	return next, true, nil
}

func reduceZoomCleared(s *domain.Session) (*domain.Session, bool) {
	next := s.Clone()
	if s.ZoomTarget == nil {
		return next, false
	}
	next.ZoomTarget = nil
	return next, true
}

// canonicalFilters: одно значение на поле (последнее побеждает), "الكل" отброшено, порядок domain.FilterOrder
func canonicalFilters(filters []domain.FilterConstraint) []domain.FilterConstraint {
	values := filterValues(filters)
	result := make([]domain.FilterConstraint, 0, len(values))
	for _, f := range domain.FilterOrder {
		if v, ok := values[f]; ok {
			result = append(result, domain.FilterConstraint{Field: f, Value: v})
		}
	}
	return result
}

// pruneStaleFilters сбрасывает значения, которых нет среди вариантов своего шага каскада
// (например, город из прежней мухафазы). Сбрасывается по одному, начиная с верхнего шага.
func pruneStaleFilters(set domain.RecordSet, filters []domain.FilterConstraint) []domain.FilterConstraint {
	for {
		cascade := ApplyFilters(set, filters)
		stale := -1
		for i, f := range filters {
			step, ok := cascade.Step(f.Field)
			if ok && !step.Skipped && !contains(step.Options, f.Value) {
				stale = i
				break
			}
		}
		if stale < 0 {
			return filters
		}
		filters = append(filters[:stale:stale], filters[stale+1:]...)
	}
}

func equalFilters(a, b []domain.FilterConstraint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
