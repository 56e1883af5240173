package usecase_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/usecase"
)

func TestVisibleSubset(t *testing.T) {
	set := fixtureSet()

	tests := []struct {
		name string
		bbox domain.BoundingBox
		want []int
	}{
		{"greater cairo", bbox(31.2, 29.9, 31.4, 30.1), []int{0, 1}},
		{"polygon edge overlap", bbox(30.95, 29.95, 31.05, 30.05), []int{2}},
		{"bbox inside polygon", bbox(30.94, 29.94, 30.96, 29.96), []int{2}},
		{"whole country", bbox(24, 22, 37, 32), []int{0, 1, 2, 4}},
		{"red sea", bbox(35, 24, 36, 25), []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := usecase.VisibleSubset(set, tt.bbox)
			assert.Equal(t, tt.want, ids(visible.Records))
		})
	}
}

func TestVisibleSubset_EmptyAggregatesToZero(t *testing.T) {
	visible := usecase.VisibleSubset(fixtureSet(), bbox(35, 24, 36, 25))
	assert.True(t, visible.IsEmpty())
	assert.Equal(t, domain.Summary{}, usecase.Aggregate(visible.Records))
}

func TestResolveZoom(t *testing.T) {
	set := fixtureSet()
	target := bbox(31.3, 30.0, 31.4, 30.1)

	t.Run("zoom target wins", func(t *testing.T) {
		got := usecase.ResolveZoom(&target, set)
		require.NotNil(t, got)
		assert.Equal(t, target, *got)
	})

	t.Run("filtered bounds", func(t *testing.T) {
		cairoOnly := usecase.ApplyFilters(set, []domain.FilterConstraint{{Field: domain.FieldGovernorate, Value: cairo}})
		got := usecase.ResolveZoom(nil, cairoOnly.Filtered)
		require.NotNil(t, got)
		assert.Equal(t, bbox(31.25, 29.96, 31.33, 30.05), *got)
	})

	t.Run("empty filtered subset", func(t *testing.T) {
		assert.Nil(t, usecase.ResolveZoom(nil, set.Subset(nil)))
	})

	t.Run("no geometry", func(t *testing.T) {
		noGeom := set.Subset([]domain.Record{set.Records[3]})
		assert.Nil(t, usecase.ResolveZoom(nil, noGeom))
	})
}

func TestZoomTargetFor(t *testing.T) {
	set := fixtureSet()

	point, ok := usecase.ZoomTargetFor(&set.Records[0])
	require.True(t, ok)
	assert.True(t, point.Valid())
	assert.Less(t, point.MinLon, 31.33)
	assert.Greater(t, point.MaxLat, 30.05)

	poly, ok := usecase.ZoomTargetFor(&set.Records[2])
	require.True(t, ok)
	assert.Equal(t, bbox(30.9, 29.9, 31.0, 30.0), poly)

	_, ok = usecase.ZoomTargetFor(&set.Records[3])
	assert.False(t, ok)
}

func TestSelectAt(t *testing.T) {
	set := fixtureSet()

	t.Run("containment", func(t *testing.T) {
		id, ok := usecase.SelectAt(set, domain.Point{Lat: 29.95, Lon: 30.95}, 25)
		require.True(t, ok)
		assert.Equal(t, 2, id)
	})

	t.Run("tolerance buffer around a point", func(t *testing.T) {
		// ~10 м от проекта 0
		id, ok := usecase.SelectAt(set, domain.Point{Lat: 30.05009, Lon: 31.33}, 25)
		require.True(t, ok)
		assert.Equal(t, 0, id)
	})

	t.Run("outside tolerance", func(t *testing.T) {
		_, ok := usecase.SelectAt(set, domain.Point{Lat: 30.06, Lon: 31.33}, 25)
		assert.False(t, ok)
	})

	t.Run("ignores filters", func(t *testing.T) {
		alexOnly := usecase.ApplyFilters(set, []domain.FilterConstraint{{Field: domain.FieldGovernorate, Value: alexandria}})
		require.Equal(t, []int{4}, ids(alexOnly.Filtered.Records))

		id, ok := usecase.SelectAt(set, domain.Point{Lat: 29.96, Lon: 31.25}, 25)
		require.True(t, ok)
		assert.Equal(t, 1, id)
	})

	t.Run("first match wins", func(t *testing.T) {
		overlapping := domain.NewRecordSet([]domain.Record{
			{ID: 7, Geometry: square(0, 0, 2, 2)},
			{ID: 8, Geometry: square(1, 1, 3, 3)},
		})
		id, ok := usecase.SelectAt(overlapping, domain.Point{Lat: 1.5, Lon: 1.5}, 25)
		require.True(t, ok)
		assert.Equal(t, 7, id)
	})

	t.Run("line vertex", func(t *testing.T) {
		lines := domain.NewRecordSet([]domain.Record{
			{ID: 1, Geometry: orb.LineString{{10, 10}, {11, 11}}},
		})
		id, ok := usecase.SelectAt(lines, domain.Point{Lat: 11, Lon: 11}, 0)
		require.True(t, ok)
		assert.Equal(t, 1, id)
	})
}

func TestOrderForDisplay(t *testing.T) {
	records := fixtureSet().Records

	ordered := usecase.OrderForDisplay(records, intPtr(3))
	assert.Equal(t, []int{3, 0, 1, 2, 4}, ids(ordered))

	again := usecase.OrderForDisplay(ordered, intPtr(3))
	assert.Equal(t, ids(ordered), ids(again), "reordering is idempotent")

	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids(usecase.OrderForDisplay(records, nil)))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids(usecase.OrderForDisplay(records, intPtr(42))))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids(records), "input is not modified")
}
