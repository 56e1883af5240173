package domain

import (
	"time"

	"github.com/google/uuid"
)

// FilterConstraint - одно условие фильтра (поле = значение)
type FilterConstraint struct {
	Field Field  `json:"field" validate:"required"`
	Value string `json:"value"`
}

// FilterOrder - порядок применения каскадных фильтров, от общего к частному
var FilterOrder = []Field{
	FieldGovernorate,
	FieldCity,
	FieldHousingType,
	FieldOwner,
	FieldCondition,
	FieldDecisions,
	FieldGasConnection,
}

// IsFilterField проверяет, участвует ли поле в каскаде фильтров
func IsFilterField(field Field) bool {
	for _, f := range FilterOrder {
		if f == field {
			return true
		}
	}
	return false
}

// DatasetSource - откуда взят текущий набор записей сессии
type DatasetSource struct {
	Kind     string    `json:"kind"` // default | upload
	Name     string    `json:"name,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

const (
	SourceDefault = "default"
	SourceUpload  = "upload"
	SourceEmpty   = "empty"
)

// Session - состояние одной пользовательской сессии дашборда.
// Меняется только через редьюсеры событий, набор записей заменяется целиком.
type Session struct {
	ID         uuid.UUID
	Records    RecordSet
	Source     DatasetSource
	Filters    []FilterConstraint
	ZoomTarget *BoundingBox
	SelectedID *int
	Viewport   *BoundingBox
	Revision   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSession создаёт сессию над заданным набором записей
func NewSession(records RecordSet, source DatasetSource, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Records:   records,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone копирует изменяемое состояние. Записи разделяются: они неизменяемы.
func (s *Session) Clone() *Session {
	c := *s
	if s.Filters != nil {
		c.Filters = append([]FilterConstraint(nil), s.Filters...)
	}
	if s.ZoomTarget != nil {
		z := *s.ZoomTarget
		c.ZoomTarget = &z
	}
	if s.SelectedID != nil {
		id := *s.SelectedID
		c.SelectedID = &id
	}
	if s.Viewport != nil {
		v := *s.Viewport
		c.Viewport = &v
	}
	return &c
}

// FilterValue возвращает выбранное значение фильтра или AllValues
func (s *Session) FilterValue(field Field) string {
	for _, f := range s.Filters {
		if f.Field == field && f.Value != "" {
			return f.Value
		}
	}
	return AllValues
}
