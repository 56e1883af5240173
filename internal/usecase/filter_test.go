package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/usecase"
)

func TestApplyFilters_NoFilters(t *testing.T) {
	set := fixtureSet()
	cascade := usecase.ApplyFilters(set, nil)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids(cascade.Filtered.Records))
	require.Len(t, cascade.Steps, len(domain.FilterOrder))

	for i, step := range cascade.Steps {
		assert.Equal(t, domain.FilterOrder[i], step.Field)
		assert.Equal(t, domain.AllValues, step.Selected)
		assert.Equal(t, domain.AllValues, step.Options[0])
	}

	gov, ok := cascade.Step(domain.FieldGovernorate)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{domain.AllValues, cairo, giza, alexandria}, gov.Options)
}

func TestApplyFilters_Cascading(t *testing.T) {
	cascade := usecase.ApplyFilters(fixtureSet(), []domain.FilterConstraint{
		{Field: domain.FieldGovernorate, Value: cairo},
	})

	assert.Equal(t, []int{0, 1}, ids(cascade.Filtered.Records))

	city, _ := cascade.Step(domain.FieldCity)
	assert.Equal(t, []string{domain.AllValues, "المعادي", "مدينة نصر"}, city.Options, "city options come from the governorate-narrowed set")

	gov, _ := cascade.Step(domain.FieldGovernorate)
	assert.Len(t, gov.Options, 4, "the first step is computed from the full set")
}

func TestApplyFilters_OrderIndependent(t *testing.T) {
	set := fixtureSet()
	forward := []domain.FilterConstraint{
		{Field: domain.FieldGovernorate, Value: giza},
		{Field: domain.FieldHousingType, Value: economic},
	}
	backward := []domain.FilterConstraint{forward[1], forward[0]}

	a := usecase.ApplyFilters(set, forward)
	b := usecase.ApplyFilters(set, backward)

	assert.Equal(t, []int{2}, ids(a.Filtered.Records))
	assert.Equal(t, ids(a.Filtered.Records), ids(b.Filtered.Records))
	assert.Equal(t, a.Steps, b.Steps)
}

func TestApplyFilters_AllTokenIsNoop(t *testing.T) {
	set := fixtureSet()
	cascade := usecase.ApplyFilters(set, []domain.FilterConstraint{
		{Field: domain.FieldGovernorate, Value: domain.AllValues},
		{Field: domain.FieldOwner, Value: ""},
	})
	assert.Equal(t, set.Len(), cascade.Filtered.Len())
}

func TestApplyFilters_StrictConjunction(t *testing.T) {
	cascade := usecase.ApplyFilters(fixtureSet(), []domain.FilterConstraint{
		{Field: domain.FieldGovernorate, Value: alexandria},
		{Field: domain.FieldHousingType, Value: medium},
	})
	assert.True(t, cascade.Filtered.IsEmpty())

	owner, _ := cascade.Step(domain.FieldOwner)
	assert.Equal(t, []string{domain.AllValues}, owner.Options)
}

func TestApplyFilters_MissingFieldIsSkipped(t *testing.T) {
	set := fixtureSet()
	set.Fields = []domain.Field{domain.FieldGovernorate, domain.FieldCity, domain.FieldGeometry}

	cascade := usecase.ApplyFilters(set, []domain.FilterConstraint{
		{Field: domain.FieldHousingType, Value: medium},
		{Field: domain.FieldCity, Value: "أكتوبر"},
	})

	assert.Equal(t, []int{2}, ids(cascade.Filtered.Records))
	step, _ := cascade.Step(domain.FieldHousingType)
	assert.True(t, step.Skipped)
	assert.Equal(t, domain.AllValues, step.Selected)
}
