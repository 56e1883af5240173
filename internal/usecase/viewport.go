package usecase

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"github.com/housing-survey-dashboard/internal/domain"
)

// zoomPadMeters - отступ вокруг точечного проекта при зуме на него, чтобы bbox не вырождался
const zoomPadMeters = 200

// VisibleSubset - записи, геометрия которых пересекает bbox карты. Записи без геометрии не видны.
func VisibleSubset(set domain.RecordSet, bbox domain.BoundingBox) domain.RecordSet {
	b := bbox.Bound()
	visible := make([]domain.Record, 0, len(set.Records))
	for i := range set.Records {
		g := set.Records[i].Geometry
		if g == nil {
			continue
		}
		if intersectsBound(g, b) {
			visible = append(visible, set.Records[i])
		}
	}
	return set.Subset(visible)
}

// ResolveZoom выбирает принудительный viewport: зум на проект > охват отфильтрованного набора > нет
func ResolveZoom(zoomTarget *domain.BoundingBox, filtered domain.RecordSet) *domain.BoundingBox {
	if zoomTarget != nil {
		z := *zoomTarget
		return &z
	}
	if filtered.IsEmpty() {
		return nil
	}
	bound, ok := filtered.Bound()
	if !ok {
		return nil
	}
	b := domain.BoundingBoxFromBound(bound)
	return &b
}

// ZoomTargetFor - bbox для зума на один проект; false если у проекта нет геометрии
func ZoomTargetFor(r *domain.Record) (domain.BoundingBox, bool) {
	if r == nil || r.Geometry == nil {
		return domain.BoundingBox{}, false
	}
	b := r.Geometry.Bound()
	if b.Min.Equal(b.Max) {
		b = geo.BoundPad(b, zoomPadMeters)
	}
	return domain.BoundingBoxFromBound(b), true
}

// SelectAt ищет проект под точкой клика во всём наборе, без учёта фильтров.
// Сначала точное попадание, затем пересечение с буфером tolerance метров. При нескольких - первый по порядку.
func SelectAt(full domain.RecordSet, point domain.Point, toleranceMeters float64) (int, bool) {
	p := point.Orb()

	for i := range full.Records {
		if g := full.Records[i].Geometry; g != nil && containsPoint(g, p) {
			return full.Records[i].ID, true
		}
	}

	if toleranceMeters <= 0 {
		return 0, false
	}
	buffer := geo.BoundPad(orb.Bound{Min: p, Max: p}, toleranceMeters)
	for i := range full.Records {
		if g := full.Records[i].Geometry; g != nil && intersectsBound(g, buffer) {
			return full.Records[i].ID, true
		}
	}
	return 0, false
}

// OrderForDisplay ставит выбранный проект первым, остальные сохраняют относительный порядок
func OrderForDisplay(records []domain.Record, selectedID *int) []domain.Record {
	ordered := make([]domain.Record, 0, len(records))
	if selectedID == nil {
		return append(ordered, records...)
	}
	for i := range records {
		if records[i].ID == *selectedID {
			ordered = append(ordered, records[i])
		}
	}
	for i := range records {
		if records[i].ID != *selectedID {
			ordered = append(ordered, records[i])
		}
	}
	return ordered
}

func containsPoint(g orb.Geometry, p orb.Point) bool {
	if !g.Bound().Contains(p) {
		return false
	}

	switch g := g.(type) {
	case orb.Point:
		return g.Equal(p)
	case orb.MultiPoint:
		for _, pt := range g {
			if pt.Equal(p) {
				return true
			}
		}
		return false
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	case orb.Ring:
		return planar.RingContains(g, p)
	case orb.Bound:
		return g.Contains(p)
	case orb.Collection:
		for _, c := range g {
			if containsPoint(c, p) {
				return true
			}
		}
		return false
	default:
		// линии: попадание только в вершину
		for _, pt := range vertices(g) {
			if pt.Equal(p) {
				return true
			}
		}
		return false
	}
}

// intersectsBound - пересекает ли геометрия прямоугольник b
func intersectsBound(g orb.Geometry, b orb.Bound) bool {
	if !g.Bound().Intersects(b) {
		return false
	}

	switch g := g.(type) {
	case orb.Point:
		return b.Contains(g)
	case orb.MultiPoint:
		for _, p := range g {
			if b.Contains(p) {
				return true
			}
		}
		return false
	case orb.LineString:
		return pathIntersectsBound(g, b)
	case orb.MultiLineString:
		for _, ls := range g {
			if pathIntersectsBound(ls, b) {
				return true
			}
		}
		return false
	case orb.Ring:
		return pathIntersectsBound(g, b) || planar.RingContains(g, b.Center())
	case orb.Polygon:
		return polygonIntersectsBound(g, b)
	case orb.MultiPolygon:
		for _, poly := range g {
			if polygonIntersectsBound(poly, b) {
				return true
			}
		}
		return false
	case orb.Collection:
		for _, c := range g {
			if intersectsBound(c, b) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func polygonIntersectsBound(poly orb.Polygon, b orb.Bound) bool {
	if len(poly) == 0 {
		return false
	}
	for _, ring := range poly {
		if pathIntersectsBound(ring, b) {
			return true
		}
	}
	// bbox целиком внутри полигона
	return planar.PolygonContains(poly, b.Center())
}

func pathIntersectsBound(path []orb.Point, b orb.Bound) bool {
	for _, p := range path {
		if b.Contains(p) {
			return true
		}
	}

	edges := [4][2]orb.Point{
		{b.Min, orb.Point{b.Max[0], b.Min[1]}},
		{orb.Point{b.Max[0], b.Min[1]}, b.Max},
		{b.Max, orb.Point{b.Min[0], b.Max[1]}},
		{orb.Point{b.Min[0], b.Max[1]}, b.Min},
	}
	for i := 1; i < len(path); i++ {
		for _, e := range edges {
			if segmentsIntersect(path[i-1], path[i], e[0], e[1]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return orb.Bound{Min: a, Max: a}.Extend(b).Contains(p)
}

func vertices(g orb.Geometry) []orb.Point {
	switch g := g.(type) {
	case orb.LineString:
		return g
	case orb.MultiLineString:
		var pts []orb.Point
		for _, ls := range g {
			pts = append(pts, ls...)
		}
		return pts
	default:
		return nil
	}
}
