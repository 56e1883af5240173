// Package projection переводит координаты исходных файлов в WGS84.
package projection

import (
	"fmt"
	"strconv"
	"strings"

	UTM "github.com/im7mortal/UTM"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	WGS84          = 4326
	WebMercator    = 3857
	googleMercator = 900913

	utmNorthBase = 32600
	utmSouthBase = 32700
)

// ParseEPSG разбирает имя CRS из GeoJSON: "EPSG:32636", "urn:ogc:def:crs:EPSG::32636", "CRS84"
func ParseEPSG(name string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if s == "" {
		return 0, fmt.Errorf("empty crs name")
	}
	if strings.HasSuffix(s, "CRS84") {
		return WGS84, nil
	}

	// последний числовой сегмент после ':' - код
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		if !strings.Contains(s, "EPSG") {
			return 0, fmt.Errorf("unsupported crs authority: %s", name)
		}
		s = s[idx+1:]
	}

	code, err := strconv.Atoi(s)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("invalid crs name: %s", name)
	}
	return code, nil
}

// IsGeographic - координаты уже в градусах WGS84
func IsGeographic(epsg int) bool {
	return epsg == WGS84
}

// Supported - умеем ли переводить из этой CRS
func Supported(epsg int) bool {
	_, err := toWGS84(epsg)
	return err == nil
}

// UTMZone возвращает номер зоны и полушарие для кодов 326zz / 327zz
func UTMZone(epsg int) (zone int, northern bool, ok bool) {
	switch {
	case epsg > utmNorthBase && epsg <= utmNorthBase+60:
		return epsg - utmNorthBase, true, true
	case epsg > utmSouthBase && epsg <= utmSouthBase+60:
		return epsg - utmSouthBase, false, true
	default:
		return 0, false, false
	}
}

// ToWGS84 перепроецирует геометрию из epsg в WGS84 lon/lat.
// Геометрия изменяется на месте; при ошибке в любой точке возвращается первая ошибка.
func ToWGS84(g orb.Geometry, epsg int) (orb.Geometry, error) {
	if g == nil || IsGeographic(epsg) {
		return g, nil
	}

	proj, err := toWGS84(epsg)
	if err != nil {
		return nil, err
	}

	var firstErr error
	guarded := func(p orb.Point) orb.Point {
		if firstErr != nil {
			return p
		}
		out, err := proj(p)
		if err != nil {
			firstErr = fmt.Errorf("point (%v, %v): %w", p[0], p[1], err)
			return p
		}
		return out
	}

	result := project.Geometry(g, guarded)
	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}

type pointProjection func(orb.Point) (orb.Point, error)

func toWGS84(epsg int) (pointProjection, error) {
	if IsGeographic(epsg) {
		return func(p orb.Point) (orb.Point, error) { return p, nil }, nil
	}

	if epsg == WebMercator || epsg == googleMercator {
		return func(p orb.Point) (orb.Point, error) {
			return project.Mercator.ToWGS84(p), nil
		}, nil
	}

	zone, northern, ok := UTMZone(epsg)
	if !ok {
		return nil, fmt.Errorf("unsupported crs: EPSG:%d", epsg)
	}

	return func(p orb.Point) (orb.Point, error) {
		lat, lon, err := UTM.ToLatLon(p[0], p[1], zone, "", northern)
		if err != nil {
			return p, err
		}
		return orb.Point{lon, lat}, nil
	}, nil
}
