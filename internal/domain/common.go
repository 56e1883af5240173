package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// Point - точка на карте в WGS84 (клик пользователя, координаты проекта)
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Orb возвращает точку в порядке lon/lat, принятом в orb и GeoJSON
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// BoundingBox - видимая область карты в WGS84, min - юго-западный угол, max - северо-восточный
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// NewBoundingBox собирает bbox из углов карты (south-west / north-east)
func NewBoundingBox(swLat, swLon, neLat, neLon float64) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(swLat, neLat),
		MinLon: math.Min(swLon, neLon),
		MaxLat: math.Max(swLat, neLat),
		MaxLon: math.Max(swLon, neLon),
	}
}

// BoundingBoxFromBound конвертирует orb.Bound в BoundingBox
func BoundingBoxFromBound(b orb.Bound) BoundingBox {
	return BoundingBox{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}

// Bound конвертирует BoundingBox в orb.Bound
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// Valid проверяет что все углы конечны и bbox не перевёрнут
func (b BoundingBox) Valid() bool {
	for _, v := range []float64{b.MinLat, b.MinLon, b.MaxLat, b.MaxLon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// Clamp прижимает bbox к географическому диапазону.
// Карта на мелком зуме отдаёт долготы за ±180, охват в 360° и больше считается всем миром.
func (b BoundingBox) Clamp() BoundingBox {
	if b.MaxLon-b.MinLon >= 360 {
		b.MinLon, b.MaxLon = -180, 180
	}
	return BoundingBox{
		MinLat: clamp(b.MinLat, -90, 90),
		MinLon: clamp(b.MinLon, -180, 180),
		MaxLat: clamp(b.MaxLat, -90, 90),
		MaxLon: clamp(b.MaxLon, -180, 180),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Corners возвращает bbox в формате fitBounds: [[south, west], [north, east]]
func (b BoundingBox) Corners() [2][2]float64 {
	return [2][2]float64{{b.MinLat, b.MinLon}, {b.MaxLat, b.MaxLon}}
}
