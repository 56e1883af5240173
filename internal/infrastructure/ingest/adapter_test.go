package ingest

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
)

func newTestAdapter() *Adapter {
	return NewAdapter(32636, 1<<20, zap.NewNop())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"xlsx", FormatXLSX, false},
		{".CSV", FormatCSV, false},
		{"projects.geojson", FormatGeoJSON, false},
		{"json", FormatJSON, false},
		{"shp", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdapter_GeoJSONWithDeclaredUTM(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::32636"}},
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [500000, 0]},
				"properties": {"المحافظة": 1, "عدد_العمارات": 2, "عدد_الأدوار": 5, "عدد_الوحدات_بالدور": 4}
			},
			{
				"type": "Feature",
				"geometry": null,
				"properties": {"المحافظة": "99", "نوع_الاسكان": null}
			}
		]
	}`)

	set, err := newTestAdapter().Ingest(context.Background(), data, "geojson")
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	first := set.Records[0]
	assert.Equal(t, "القاهرة", first.Governorate)
	assert.Equal(t, 40, first.UnitsCount)
	p, ok := first.Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 33.0, p.Lon(), 1e-6)
	assert.InDelta(t, 0.0, p.Lat(), 1e-6)

	second := set.Records[1]
	assert.Equal(t, "99", second.Governorate)
	assert.Equal(t, domain.Unspecified, second.HousingType)
	assert.False(t, second.HasGeometry())
}

func TestAdapter_GeoJSONWithoutCRS(t *testing.T) {
	t.Run("geographic coordinates are kept", func(t *testing.T) {
		data := []byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[31.24,30.04]},"properties":{"المحافظة":"1"}}
		]}`)

		set, err := newTestAdapter().Ingest(context.Background(), data, "json")
		require.NoError(t, err)
		assert.Equal(t, orb.Point{31.24, 30.04}, set.Records[0].Geometry)
	})

	t.Run("metric coordinates use the fallback projection", func(t *testing.T) {
		data := []byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[500000,0]},"properties":{}}
		]}`)

		set, err := newTestAdapter().Ingest(context.Background(), data, "geojson")
		require.NoError(t, err)
		p := set.Records[0].Geometry.(orb.Point)
		assert.InDelta(t, 33.0, p.Lon(), 1e-6)
	})
}

func TestAdapter_GeoJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"type":`},
		{"not a collection", `{"type":"Point","coordinates":[1,2]}`},
		{"unknown crs", `{"type":"FeatureCollection","crs":{"type":"name","properties":{"name":"EPSG:2154"}},"features":[]}`},
		{"reprojection failure", `{"type":"FeatureCollection","crs":{"type":"name","properties":{"name":"EPSG:32636"}},"features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[-10,0]},"properties":{}}
		]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestAdapter().Ingest(context.Background(), []byte(tt.data), "geojson")
			assert.ErrorIs(t, err, errors.ErrMalformedInput)
		})
	}
}

func TestAdapter_CSV(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(
		"المحافظة,اسم_الموقع,عدد_العمارات,عدد_الأدوار,عدد_الوحدات_بالدور,lat,lon\n"+
			"14,مشروع الجيزة,3,4,2,30.01,31.21\n"+
			"1.0,بدون إحداثيات,1,1,1,,\n"+
			",,,,,,\n",
	)...)

	set, err := newTestAdapter().Ingest(context.Background(), data, "csv")
	require.NoError(t, err)
	require.Equal(t, 2, set.Len(), "blank row is skipped")

	assert.Equal(t, "الجيزة", set.Records[0].Governorate)
	assert.Equal(t, 24, set.Records[0].UnitsCount)
	assert.Equal(t, orb.Point{31.21, 30.01}, set.Records[0].Geometry)

	assert.Equal(t, "القاهرة", set.Records[1].Governorate)
	assert.Nil(t, set.Records[1].Geometry)
}

func TestAdapter_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"المحافظة", "المدينة_المركز", "عدد_العمارات", "عدد_الأدوار", "عدد_الوحدات_بالدور", "عدد_الوحدات_الاجمالي", "lat", "lon"},
		{2, "العامرية", 5, 6, 4, 1, 31.1, 29.8},
		{35, "شرم الشيخ", "x", 6, 4, 24, nil, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	set, err := newTestAdapter().Ingest(context.Background(), buf.Bytes(), "XLSX")
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	assert.Equal(t, "الإسكندرية", set.Records[0].Governorate)
	assert.Equal(t, 120, set.Records[0].UnitsCount)
	assert.Equal(t, orb.Point{29.8, 31.1}, set.Records[0].Geometry)

	assert.Equal(t, "جنوب سيناء", set.Records[1].Governorate)
	assert.Equal(t, 0, set.Records[1].UnitsCount)
	assert.Nil(t, set.Records[1].Geometry)
}

func TestAdapter_Limits(t *testing.T) {
	a := NewAdapter(32636, 10, zap.NewNop())

	_, err := a.Ingest(context.Background(), []byte("المحافظة\n1\n2\n"), "csv")
	assert.ErrorIs(t, err, errors.ErrUploadTooLarge)

	_, err = a.Ingest(context.Background(), []byte("x"), "pdf")
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)

	_, err = newTestAdapter().Ingest(context.Background(), []byte("not a zip"), "xlsx")
	assert.ErrorIs(t, err, errors.ErrMalformedInput)
}

func TestAdapter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAdapter().Ingest(ctx, []byte("a,b\n1,2\n"), "csv")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}
