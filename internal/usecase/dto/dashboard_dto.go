package dto

import "github.com/housing-survey-dashboard/internal/domain"

// FiltersRequest - новые значения каскадных фильтров
type FiltersRequest struct {
	Filters []FilterValue `json:"filters" validate:"max=7,dive"`
}

// FilterValue - значение одного фильтра; "الكل" или пустая строка снимает фильтр
type FilterValue struct {
	Field string `json:"field" validate:"required,filterfield"`
	Value string `json:"value" validate:"max=512"`
}

// ToConstraints конвертирует запрос в доменные ограничения
func (r FiltersRequest) ToConstraints() []domain.FilterConstraint {
	result := make([]domain.FilterConstraint, 0, len(r.Filters))
	for _, f := range r.Filters {
		result = append(result, domain.FilterConstraint{Field: domain.Field(f.Field), Value: f.Value})
	}
	return result
}

// ViewportRequest - bbox карты (south-west / north-east).
// Диапазоны координат проверяет редьюсер, чтобы ответ нёс INVALID_BBOX / INVALID_COORDINATES.
type ViewportRequest struct {
	SwLat *float64 `json:"sw_lat" validate:"required"`
	SwLon *float64 `json:"sw_lon" validate:"required"`
	NeLat *float64 `json:"ne_lat" validate:"required"`
	NeLon *float64 `json:"ne_lon" validate:"required"`
}

// BoundingBox конвертирует запрос в bbox
func (r ViewportRequest) BoundingBox() domain.BoundingBox {
	return domain.NewBoundingBox(*r.SwLat, *r.SwLon, *r.NeLat, *r.NeLon)
}

// ClickRequest - клик по карте
type ClickRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lon *float64 `json:"lon" validate:"required"`
}

// Point конвертирует запрос в точку
func (r ClickRequest) Point() domain.Point {
	return domain.Point{Lat: *r.Lat, Lon: *r.Lon}
}

// RecordRequest - выбор проекта или зум на проект
type RecordRequest struct {
	RecordID *int `json:"record_id" validate:"required,min=0"`
}

// UploadRequest - загруженный файл
type UploadRequest struct {
	FileName string `validate:"required"`
	Data     []byte `validate:"required,min=1"`
}

// ViewResponse - представление дашборда после взаимодействия
type ViewResponse struct {
	View    domain.DashboardView `json:"view"`
	Changed bool                 `json:"changed"`
}
