package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/usecase"
)

func listIDs(items []domain.ListItem) []int {
	result := make([]int, 0, len(items))
	for _, it := range items {
		result = append(result, it.ID)
	}
	return result
}

func TestBuildView_Defaults(t *testing.T) {
	s := fixtureSession()
	view := usecase.BuildView(s, 50)

	assert.Equal(t, s.ID.String(), view.SessionID)
	assert.Equal(t, 5, view.TotalCount)
	assert.Equal(t, 5, view.FilteredCount)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, listIDs(view.Visible), "no viewport reported yet: visible = filtered")
	assert.Equal(t, 0, view.Remaining)
	assert.False(t, view.Empty)
	assert.Equal(t, view.TopSummary, view.VisibleSummary)
	require.NotNil(t, view.ForcedViewport)
	assert.Equal(t, bbox(29.8, 29.9, 31.33, 31.1), *view.ForcedViewport)
	assert.Len(t, view.Breakdowns, len(domain.ChartFields))
}

func TestBuildView_TopSummaryUsesGovernorateOnly(t *testing.T) {
	s := fixtureSession()
	s.Filters = []domain.FilterConstraint{
		{Field: domain.FieldGovernorate, Value: cairo},
		{Field: domain.FieldHousingType, Value: medium},
	}

	view := usecase.BuildView(s, 50)

	assert.Equal(t, 1, view.FilteredCount)
	assert.Equal(t, 2, view.TopSummary.Count)
	assert.Equal(t, 60, view.TopSummary.UnitSum)
	assert.Equal(t, 1, view.VisibleSummary.Count)
	assert.Equal(t, 20, view.VisibleSummary.UnitSum)
}

func TestBuildView_ViewportAndEmpty(t *testing.T) {
	s := fixtureSession()
	vp := bbox(35, 24, 36, 25)
	s.Viewport = &vp

	view := usecase.BuildView(s, 50)
	assert.True(t, view.Empty)
	assert.Empty(t, view.Visible)
	assert.Equal(t, domain.Summary{}, view.VisibleSummary)
	assert.Equal(t, 5, view.TopSummary.Count)
}

func TestBuildView_ListLimitAndSelection(t *testing.T) {
	s := fixtureSession()
	s.SelectedID = intPtr(4)

	view := usecase.BuildView(s, 2)
	assert.Equal(t, []int{4, 0}, listIDs(view.Visible))
	assert.True(t, view.Visible[0].Selected)
	assert.False(t, view.Visible[0].Pinned)
	assert.Equal(t, 3, view.Remaining)
}

func TestBuildView_SelectedOutsideFilterIsPinned(t *testing.T) {
	s := fixtureSession()
	s.Filters = []domain.FilterConstraint{{Field: domain.FieldGovernorate, Value: cairo}}
	s.SelectedID = intPtr(4)

	view := usecase.BuildView(s, 50)
	assert.Equal(t, []int{4, 0, 1}, listIDs(view.Visible))
	assert.True(t, view.Visible[0].Pinned)
	assert.Equal(t, 2, view.VisibleSummary.Count, "pinned record is not aggregated")
}

func TestBuildMapPayload(t *testing.T) {
	s := fixtureSession()
	s.Filters = []domain.FilterConstraint{{Field: domain.FieldGovernorate, Value: giza}}

	payload := usecase.BuildMapPayload(s)
	require.NotNil(t, payload.Features)
	assert.Len(t, payload.Features.Features, 2)
	require.NotNil(t, payload.ForcedViewport)
	assert.Equal(t, bbox(30.9, 29.9, 31.0, 30.0), *payload.ForcedViewport)
	require.NotNil(t, payload.FitBounds)
	assert.Equal(t, [2][2]float64{{29.9, 30.9}, {30.0, 31.0}}, *payload.FitBounds)
}
