package usecase_test

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/housing-survey-dashboard/internal/domain"
)

const (
	cairo      = "القاهرة"
	giza       = "الجيزة"
	alexandria = "الإسكندرية"

	economic = "اقتصادي"
	medium   = "متوسط"
)

var fixtureTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func square(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}}
}

func record(id int, gov, city, housingType, owner string, geom orb.Geometry, buildings, floors, perFloor int) domain.Record {
	return domain.Record{
		ID:             id,
		Governorate:    gov,
		City:           city,
		ProjectName:    "مشروع",
		Owner:          owner,
		Tenure:         domain.Unspecified,
		HousingType:    housingType,
		Condition:      "جيدة",
		Decisions:      domain.Unspecified,
		GasConnection:  "نعم",
		BuildingsCount: buildings,
		FloorsCount:    floors,
		UnitsPerFloor:  perFloor,
		UnitsCount:     buildings * floors * perFloor,
		Geometry:       geom,
	}
}

// fixtureSet - пять проектов в трёх мухафазах; у проекта 3 нет геометрии
func fixtureSet() domain.RecordSet {
	return domain.NewRecordSet([]domain.Record{
		record(0, cairo, "مدينة نصر", economic, "الإسكان", orb.Point{31.33, 30.05}, 2, 5, 4),
		record(1, cairo, "المعادي", medium, "المحافظة", orb.Point{31.25, 29.96}, 1, 10, 2),
		record(2, giza, "أكتوبر", economic, "الإسكان", square(30.9, 29.9, 31.0, 30.0), 3, 4, 4),
		record(3, giza, "الشيخ زايد", medium, "المحافظة", nil, 0, 4, 4),
		record(4, alexandria, "العامرية", economic, "الأوقاف", orb.Point{29.8, 31.1}, 5, 6, 4),
	})
}

func fixtureSession() *domain.Session {
	return domain.NewSession(fixtureSet(), domain.DatasetSource{Kind: domain.SourceDefault}, fixtureTime)
}

func ids(records []domain.Record) []int {
	result := make([]int, 0, len(records))
	for _, r := range records {
		result = append(result, r.ID)
	}
	return result
}

func bbox(minLon, minLat, maxLon, maxLat float64) domain.BoundingBox {
	return domain.NewBoundingBox(minLat, minLon, maxLat, maxLon)
}

func intPtr(v int) *int { return &v }
