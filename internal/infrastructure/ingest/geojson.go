package ingest

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/infrastructure/projection"
	"github.com/housing-survey-dashboard/internal/normalizer"
	"github.com/housing-survey-dashboard/internal/pkg/utils"
)

func (a *Adapter) decodeGeoJSON(ctx context.Context, data []byte) (domain.RawTable, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("failed to parse geojson: %w", err)
	}

	epsg, declared, err := declaredCRS(fc)
	if err != nil {
		return domain.RawTable{}, err
	}
	if !declared {
		epsg = a.guessCRS(fc)
	}
	if !projection.Supported(epsg) {
		return domain.RawTable{}, fmt.Errorf("unsupported crs: EPSG:%d", epsg)
	}

	columns := propertyColumns(fc)
	table := domain.RawTable{
		Columns: columns,
		Rows:    make([]domain.RawRow, 0, len(fc.Features)),
	}

	for i, f := range fc.Features {
		if err := ctx.Err(); err != nil {
			return domain.RawTable{}, err
		}

		var geom orb.Geometry
		if f.Geometry != nil {
			geom, err = projection.ToWGS84(f.Geometry, epsg)
			if err != nil {
				return domain.RawTable{}, fmt.Errorf("feature %d: reprojection failed: %w", i, err)
			}
		}

		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = f.Properties[c]
		}
		table.Rows = append(table.Rows, domain.RawRow{Values: values, Geometry: geom})
	}

	return table, nil
}

// declaredCRS читает устаревший член "crs" коллекции: {"type":"name","properties":{"name":"EPSG:32636"}}
func declaredCRS(fc *geojson.FeatureCollection) (int, bool, error) {
	raw, ok := fc.ExtraMembers["crs"]
	if !ok || raw == nil {
		return 0, false, nil
	}

	member, ok := raw.(map[string]interface{})
	if !ok {
		return 0, false, fmt.Errorf("invalid crs member")
	}
	props, _ := member["properties"].(map[string]interface{})

	switch {
	case props["name"] != nil:
		name, _ := props["name"].(string)
		code, err := projection.ParseEPSG(name)
		if err != nil {
			return 0, false, err
		}
		return code, true, nil
	case props["code"] != nil:
		// старый вариант {"type":"EPSG","properties":{"code":32636}}
		code, ok := props["code"].(float64)
		if !ok || code <= 0 {
			return 0, false, fmt.Errorf("invalid crs code: %v", props["code"])
		}
		return int(code), true, nil
	default:
		return 0, false, fmt.Errorf("crs member without name")
	}
}

// guessCRS: без объявленной CRS координаты считаются метрами fallback-проекции,
// если только все они уже не лежат в географическом диапазоне
func (a *Adapter) guessCRS(fc *geojson.FeatureCollection) int {
	var (
		found bool
		bound orb.Bound
	)
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			bound, found = b, true
			continue
		}
		bound = bound.Union(b)
	}

	if !found || (utils.InGeographicRange(bound.Min.X(), bound.Min.Y()) &&
		utils.InGeographicRange(bound.Max.X(), bound.Max.Y())) {
		return projection.WGS84
	}

	a.logger.Debug("GeoJSON without crs, assuming fallback projection",
		zap.Int("epsg", a.fallbackEPSG),
	)
	return a.fallbackEPSG
}

// propertyColumns собирает объединение ключей свойств всех объектов.
// Декодер не сохраняет порядок ключей, поэтому колонки упорядочены как в анкете, остальные по алфавиту.
func propertyColumns(fc *geojson.FeatureCollection) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, f := range fc.Features {
		for k := range f.Properties {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}

	normalizer.SortColumns(columns)
	return columns
}
