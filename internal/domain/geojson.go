package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection конвертирует записи в GeoJSON для карты и для хранения снапшота
func (s RecordSet) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range s.Records {
		r := &s.Records[i]
		f := geojson.NewFeature(r.Geometry)
		f.ID = r.ID
		f.Properties = r.Properties()
		fc.Append(f)
	}
	return fc
}

// RecordSetFromFeatureCollection восстанавливает уже нормализованный набор из GeoJSON
func RecordSetFromFeatureCollection(fc *geojson.FeatureCollection, fields []Field) (RecordSet, error) {
	records := make([]Record, 0, len(fc.Features))
	for i, f := range fc.Features {
		p := f.Properties
		id, ok := propInt(p, "id")
		if !ok {
			return RecordSet{}, fmt.Errorf("feature %d: missing id", i)
		}
		r := Record{
			ID:               id,
			Governorate:      p.MustString(string(FieldGovernorate), Unspecified),
			City:             p.MustString(string(FieldCity), Unspecified),
			ProjectName:      p.MustString(string(FieldProjectName), Unspecified),
			Owner:            p.MustString(string(FieldOwner), Unspecified),
			Tenure:           p.MustString(string(FieldTenure), Unspecified),
			HousingType:      p.MustString(string(FieldHousingType), Unspecified),
			Condition:        p.MustString(string(FieldCondition), Unspecified),
			Decisions:        p.MustString(string(FieldDecisions), Unspecified),
			GasConnection:    p.MustString(string(FieldGasConnection), Unspecified),
			BuildingsCount:   propIntOrZero(p, string(FieldBuildingsCount)),
			FloorsCount:      propIntOrZero(p, string(FieldFloorsCount)),
			UnitsPerFloor:    propIntOrZero(p, string(FieldUnitsPerFloor)),
			ConstructionYear: p.MustString(string(FieldConstructionYear), ""),
			Geometry:         f.Geometry,
		}
		// units_count из снапшота не доверяем, он всегда производный
		r.UnitsCount = r.BuildingsCount * r.FloorsCount * r.UnitsPerFloor
		records = append(records, r)
	}

	if len(fields) == 0 {
		fields = CanonicalFields
	}
	return RecordSet{Records: records, Fields: append([]Field(nil), fields...)}, nil
}

func propInt(p geojson.Properties, key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func propIntOrZero(p geojson.Properties, key string) int {
	v, _ := propInt(p, key)
	return v
}

// SessionSnapshot - сериализуемое представление сессии для внешнего хранилища
type SessionSnapshot struct {
	ID         uuid.UUID                  `json:"id"`
	Source     DatasetSource              `json:"source"`
	Filters    []FilterConstraint         `json:"filters,omitempty"`
	ZoomTarget *BoundingBox               `json:"zoom_target,omitempty"`
	SelectedID *int                       `json:"selected_id,omitempty"`
	Viewport   *BoundingBox               `json:"viewport,omitempty"`
	Revision   int64                      `json:"revision"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
	Fields     []Field                    `json:"fields"`
	Records    *geojson.FeatureCollection `json:"records"`
}

// Snapshot снимает сериализуемую копию сессии
func (s *Session) Snapshot() SessionSnapshot {
	c := s.Clone()
	return SessionSnapshot{
		ID:         c.ID,
		Source:     c.Source,
		Filters:    c.Filters,
		ZoomTarget: c.ZoomTarget,
		SelectedID: c.SelectedID,
		Viewport:   c.Viewport,
		Revision:   c.Revision,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Fields:     c.Records.Fields,
		Records:    c.Records.FeatureCollection(),
	}
}

// Restore восстанавливает сессию из снапшота
func (snap SessionSnapshot) Restore() (*Session, error) {
	records := RecordSet{Fields: snap.Fields}
	if snap.Records != nil {
		rs, err := RecordSetFromFeatureCollection(snap.Records, snap.Fields)
		if err != nil {
			return nil, fmt.Errorf("restore records: %w", err)
		}
		records = rs
	}

	return &Session{
		ID:         snap.ID,
		Records:    records,
		Source:     snap.Source,
		Filters:    snap.Filters,
		ZoomTarget: snap.ZoomTarget,
		SelectedID: snap.SelectedID,
		Viewport:   snap.Viewport,
		Revision:   snap.Revision,
		CreatedAt:  snap.CreatedAt,
		UpdatedAt:  snap.UpdatedAt,
	}, nil
}
